package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freehekimteam/quietvector/pkg/cryptox"
)

var (
	totpIssuer  string
	totpAccount string
)

var totpSecretCmd = &cobra.Command{
	Use:   "totp-secret",
	Short: "Generate a TOTP secret for ADMIN_TOTP_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := cryptox.GenerateTOTP(totpIssuer, totpAccount)
		if err != nil {
			return fmt.Errorf("failed to generate TOTP secret: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ADMIN_TOTP_SECRET=%s\n", key.Secret)
		fmt.Fprintf(out, "otpauth URL (add to your authenticator): %s\n", key.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(totpSecretCmd)
	totpSecretCmd.Flags().StringVar(&totpIssuer, "issuer", "QuietVector", "Issuer shown in the authenticator app")
	totpSecretCmd.Flags().StringVar(&totpAccount, "account", "admin", "Account name shown in the authenticator app")
}
