package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-posts/internal/database"
	"github.com/beesaferoot/gorm-posts/internal/seed"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake posts and likes",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, _ := cmd.Flags().GetInt("posts")
			maxLikes, _ := cmd.Flags().GetInt("max-likes")
			users, _ := cmd.Flags().GetInt("users")

			_, db, err := getDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if _, err := getMigrator(db).Up(); err != nil {
				return err
			}

			res, err := seed.Run(cmd.Context(), db, seed.Options{Posts: posts, MaxLikes: maxLikes, Users: users})
			if err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d posts and %d likes\n", len(res.Posts), res.Likes)
			return nil
		},
	}

	cmd.Flags().Int("posts", 20, "Number of posts to create")
	cmd.Flags().Int("max-likes", 10, "Maximum number of likes per post")
	cmd.Flags().Int("users", 5, "Number of distinct fake authors")
	return cmd
}
