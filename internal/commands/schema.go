package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-posts/internal/post"
	"github.com/beesaferoot/gorm-posts/internal/schema"
	"github.com/beesaferoot/gorm-posts/migration"
)

func SchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the tables and columns of the registered models",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := post.Registry{}
			if err := migration.ValidateRegistry(registry); err != nil {
				return err
			}

			tables, err := schema.Describe(registry.GetModels())
			if err != nil {
				return fmt.Errorf("failed to parse models: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, t := range tables {
				fmt.Fprintf(out, "%s (%s)\n", t.TableName(), t.Name)
				for _, c := range t.Columns {
					fmt.Fprintf(out, "  %-12s %-12s %s\n", c.ColumnName(), c.Type(), c.Flags())
				}
				if fks := t.ForeignKeys(); len(fks) > 0 {
					fmt.Fprintf(out, "  foreign keys: %s\n", strings.Join(fks, ", "))
				}
			}
			return nil
		},
	}
}
