package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-posts/internal/database"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(UpCmd(), DownCmd(), StatusCmd(), HistoryCmd())
	return cmd
}

func UpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			_, db, err := getDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			migrator := getMigrator(db)
			pending, err := migrator.Pending()
			if err != nil {
				return fmt.Errorf("failed to get pending migrations: %w", err)
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, mr := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", mr.Name, mr.Version)
				}
				return nil
			}

			applied, err := migrator.Up()
			for _, mr := range applied {
				fmt.Fprintf(out, "Applied migration: %s (%s)\n", mr.Name, mr.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")
	return cmd
}

func DownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, db, err := getDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			reverted, err := getMigrator(db).Down()
			if err != nil {
				return err
			}
			if reverted == nil {
				fmt.Fprintln(out, "No migrations to revert.")
				return nil
			}
			fmt.Fprintf(out, "Reverted migration: %s (%s)\n", reverted.Name, reverted.Version)
			return nil
		},
	}
}

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, db, err := getDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			status, err := getMigrator(db).Status()
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Fprintf(out, "%-16s  %-30s  %s\n", "Version", "Name", "State")
			for _, s := range status {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %s\n", s.Version, s.Name, state)
			}
			return nil
		},
	}
}

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show migration history",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, db, err := getDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			records, err := getMigrator(db).History()
			if err != nil {
				return fmt.Errorf("failed to get migration history: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No migrations have been applied yet.")
				return nil
			}

			fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", "Version", "Name", "Applied At")
			for _, record := range records {
				fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", record.Version, record.Name, record.AppliedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
