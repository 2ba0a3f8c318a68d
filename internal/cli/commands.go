package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultServiceURL = "http://localhost:8080"

// RootCmd returns the cutoffctl root command
func RootCmd() *cobra.Command {
	var (
		serviceURL string
		timeout    time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "cutoffctl",
		Short: "Operate the booking cut-off alert service",
		Long: `cutoffctl talks to a running cutoff-alert-service.
It can trigger an out-of-schedule sweep, show the scheduler state
and list the deadline notifications a user has received.`,
		SilenceUsage: true,
	}

	if env := os.Getenv("CUTOFF_SERVICE_URL"); env != "" {
		serviceURL = env
	} else {
		serviceURL = defaultServiceURL
	}
	rootCmd.PersistentFlags().StringVar(&serviceURL, "url", serviceURL, "service base URL (env CUTOFF_SERVICE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")

	client := func() *Client { return NewClient(serviceURL, timeout) }

	rootCmd.AddCommand(sweepCmd(client))
	rootCmd.AddCommand(statusCmd(client))
	rootCmd.AddCommand(inboxCmd(client))

	return rootCmd
}

func sweepCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a sweep now and print its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().Sweep(cmd.Context())
			if err != nil {
				return err
			}
			renderSweep(cmd.OutOrStdout(), result)
			if result.Error != "" {
				return fmt.Errorf("sweep failed")
			}
			return nil
		},
	}
}

func statusCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a sweep is running and the last result",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := client().Status(cmd.Context())
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), status.Running, status.LastResult)
			return nil
		},
	}
}

func inboxCmd(client func() *Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inbox <user-id>",
		Short: "List a user's deadline notifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notifications, err := client().Inbox(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			renderInbox(cmd.OutOrStdout(), args[0], notifications)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum notifications to list")

	return cmd
}
