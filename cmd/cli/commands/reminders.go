package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/services"
)

// ScheduleRemindersCmd creates the scheduleReminders command
func ScheduleRemindersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduleReminders",
		Short: "Queue SMS reminders for a week's cooks and washers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := weekFlag(cmd)
			if err != nil {
				return err
			}

			result, err := services.ScheduleReminders(app.Ctx, app.Database, app.Redis, app.Cfg, app.Logger, week, app.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %d reminders queued for %d meals in week of %s\n\n",
				len(result.Scheduled), result.Meals, result.WeekStart.Format("Mon 02 Jan 2006"))
			for _, r := range result.Scheduled {
				fmt.Printf("  %s  %-6s  %s\n", r.FireAt.In(app.Cfg.Location()).Format("Mon 02 Jan 15:04"), r.Duty, r.Recipient)
			}
			if len(result.Scheduled) > 0 {
				fmt.Println()
			}
			return nil
		},
	}

	addWeekFlag(cmd, "Any date in the week, YYYY-MM-DD (defaults to the current week)")
	return cmd
}

// DispatchRemindersCmd creates the dispatchReminders command
func DispatchRemindersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatchReminders",
		Short: "Send reminders that are due",
		Long: `Send every queued reminder that is due. With --watch, keep polling at the
configured interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")

			dispatch := func() error {
				result, err := services.DispatchReminders(app.Ctx, app.Database, app.Redis, app.SMS, app.Cfg, app.Logger, time.Now())
				if err != nil {
					return err
				}
				if watch {
					return nil
				}

				pending, err := app.Redis.PendingReminders(app.Ctx)
				if err != nil {
					return err
				}
				fmt.Printf("\nDelivered: %d\nFailed:    %d\nStale:     %d\nExpired:   %d\nPending:   %d\n\n",
					result.Delivered, result.Failed, result.Stale, result.Expired, pending)
				return nil
			}

			if !watch {
				return dispatch()
			}

			app.Logger.Info("Watching for due reminders", zap.Duration("interval", app.Cfg.Reminders.PollInterval))
			ticker := time.NewTicker(app.Cfg.Reminders.PollInterval)
			defer ticker.Stop()

			for {
				if err := dispatch(); err != nil {
					app.Logger.Error("Reminder dispatch failed", zap.Error(err))
				}

				select {
				case <-app.Ctx.Done():
					app.Logger.Info("Stopped watching reminders")
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().Bool("watch", false, "Keep dispatching at the configured poll interval")
	return cmd
}
