package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/clients/redisclient"
	"github.com/jakechorley/kitchen-rota/pkg/clients/smsclient"
	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
	"github.com/jakechorley/kitchen-rota/pkg/core/services"
	"github.com/jakechorley/kitchen-rota/pkg/db"
	"github.com/jakechorley/kitchen-rota/pkg/postgres"
)

var (
	_ db.Database            = (*postgres.DB)(nil)
	_ services.WeekLocker    = (*redisclient.Client)(nil)
	_ services.ReminderQueue = (*redisclient.Client)(nil)
	_ reminders.Sink         = (*smsclient.Client)(nil)
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Redis    *redisclient.Client
	SMS      *smsclient.Client
	Logger   *zap.Logger
	Ctx      context.Context
}

// Now returns the current time in the configured timezone
func (app *AppContext) Now() time.Time {
	return time.Now().In(app.Cfg.Location())
}

// addWeekFlag registers the --week flag shared by week-scoped commands
func addWeekFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("week", "w", "", usage)
}

// weekFlag returns the week start selected by --week, or the zero time when unset
func weekFlag(cmd *cobra.Command) (time.Time, error) {
	value, _ := cmd.Flags().GetString("week")
	if value == "" {
		return time.Time{}, nil
	}
	week, err := services.ParseWeek(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --week: %w", err)
	}
	return week, nil
}
