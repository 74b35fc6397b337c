package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/freehekimteam/quietvector/pkg/adminsdk"
)

var (
	restoreURL        string
	restoreUsername   string
	restorePassword   string
	restoreTOTP       string
	restoreAPIKey     string
	restoreCollection string
	restorePoll       time.Duration
	restoreTimeout    time.Duration
)

var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot-file>",
	Short: "Upload a snapshot to a running server and wait for the restore",
	Long: `Upload a snapshot file to a running QuietVector server, restore it into
--collection and poll until the restore completes or fails.

The password defaults to $QUIETVECTOR_PASSWORD.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreCollection == "" {
			return errors.New("--collection is required")
		}
		pw := restorePassword
		if pw == "" {
			pw = os.Getenv("QUIETVECTOR_PASSWORD")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if restoreTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, restoreTimeout)
			defer cancel()
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()

		client := adminsdk.NewSDKClient(restoreURL)
		client.APIKey = restoreAPIKey
		session, err := client.Login(ctx, restoreUsername, pw, restoreTOTP)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		started, err := session.RestoreSnapshot(ctx, restoreCollection, filepath.Base(args[0]), f)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "uploaded %s, operation %s\n", filepath.Base(args[0]), started.OpID)

		op, err := session.WaitForOperation(ctx, started.OpID, restorePoll)
		if err != nil {
			return fmt.Errorf("waiting for operation %s: %w", started.OpID, err)
		}
		if op.Stage != "completed" {
			msg := "unknown error"
			if op.Error != nil {
				msg = *op.Error
			}
			return fmt.Errorf("restore %s: %s", op.Stage, msg)
		}
		fmt.Fprintf(out, "restore of %q completed\n", restoreCollection)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	f := restoreCmd.Flags()
	f.StringVar(&restoreURL, "url", "http://127.0.0.1:8090", "Base URL of the QuietVector server")
	f.StringVarP(&restoreUsername, "username", "u", "admin", "Admin username")
	f.StringVar(&restorePassword, "password", "", "Admin password (default $QUIETVECTOR_PASSWORD)")
	f.StringVar(&restoreTOTP, "totp", "", "TOTP code, when the server requires one")
	f.StringVar(&restoreAPIKey, "api-key", "", "X-Api-Key value, when the server requires one")
	f.StringVarP(&restoreCollection, "collection", "c", "", "Collection to restore into")
	f.DurationVar(&restorePoll, "poll", time.Second, "Status poll interval")
	f.DurationVar(&restoreTimeout, "timeout", 0, "Give up after this long (0 waits forever)")
}
