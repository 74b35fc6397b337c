package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freehekimteam/quietvector/internal/admin/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	Long: `Start the admin API server.

Configuration is read from the environment: API_HOST, API_PORT, QDRANT_HOST,
QDRANT_PORT, JWT_SECRET, ADMIN_USERNAME, ADMIN_PASSWORD_HASH and friends.
Generate the password hash with "quietvector hash-password".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(app.LoadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
