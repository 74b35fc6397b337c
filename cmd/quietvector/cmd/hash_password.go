package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freehekimteam/quietvector/pkg/cryptox"
)

var hashPassword string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print an argon2id hash for ADMIN_PASSWORD_HASH",
	Long: `Print an argon2id hash for ADMIN_PASSWORD_HASH.

The password is taken from --password or, when that is empty, from the first
line of standard input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pw := hashPassword
		if pw == "" {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			pw = strings.TrimRight(line, "\r\n")
		}
		if len(pw) < 3 {
			return errors.New("password must be at least 3 characters")
		}

		h, err := cryptox.HashPassword(pw)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
	hashPasswordCmd.Flags().StringVar(&hashPassword, "password", "", "Password to hash (read from stdin when empty)")
}
