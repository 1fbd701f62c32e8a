package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/jobs"
	"github.com/Raymond9734/crm-backend/internal/models"
)

// ReminderDoneMessage is printed after a successful reminder run
const ReminderDoneMessage = "Order reminders processed!"

// NewJobsCommand creates the jobs command group.
func NewJobsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run a maintenance job once",
		Long: `Run one of the scheduled maintenance jobs in-process against the
configured CRM API, without going through the queue.`,
	}

	cmd.AddCommand(newJobCommand(rootOpts, "heartbeat", models.JobHeartbeat, "Record that the API is alive", ""))
	cmd.AddCommand(newJobCommand(rootOpts, "low-stock", models.JobLowStock, "Replenish low stock products", ""))
	cmd.AddCommand(newJobCommand(rootOpts, "order-reminders", models.JobOrderReminders, "Log reminders for recent orders", ReminderDoneMessage))

	return cmd
}

func newJobCommand(rootOpts *RootOptions, use, kind, short, done string) *cobra.Command {
	return &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry := jobs.NewRegistry(jobs.SettingsFromConfig(cfg.Jobs), logger)
			if err := registry.Run(cmd.Context(), kind); err != nil {
				return err
			}

			if done != "" {
				fmt.Fprintln(cmd.OutOrStdout(), done)
			}
			return nil
		},
	}
}
