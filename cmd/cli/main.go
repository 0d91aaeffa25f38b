package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/cmd/cli/commands"
	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/clients/redisclient"
	"github.com/jakechorley/kitchen-rota/pkg/clients/smsclient"
	"github.com/jakechorley/kitchen-rota/pkg/postgres"
	"github.com/jakechorley/kitchen-rota/pkg/utils/logging"
)

var (
	env      string
	logLevel string
	app      = &commands.AppContext{}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Ctx = ctx

	rootCmd := &cobra.Command{
		Use:   "kitchen",
		Short: "Kitchen Rota CLI - Manage meals and kitchen duties",
		Long:  `A CLI tool for defining meals, assigning cooks and washers, exchanging duties and sending duty reminders.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Console log level (debug, info, warn, error)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.AddUserCmd(app))
	rootCmd.AddCommand(commands.ListUsersCmd(app))
	rootCmd.AddCommand(commands.SetRulesCmd(app))
	rootCmd.AddCommand(commands.ShowRulesCmd(app))
	rootCmd.AddCommand(commands.DefineWeekCmd(app))
	rootCmd.AddCommand(commands.GenerateDutiesCmd(app))
	rootCmd.AddCommand(commands.ListDutiesCmd(app))
	rootCmd.AddCommand(commands.ExchangeDutyCmd(app))
	rootCmd.AddCommand(commands.PublicationStatusCmd(app))
	rootCmd.AddCommand(commands.ScheduleRemindersCmd(app))
	rootCmd.AddCommand(commands.DispatchRemindersCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database, redis and the SMS client
func initApp() error {
	var err error

	app.Logger, err = logging.InitLogger(env, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("timezone", app.Cfg.Timezone))

	app.Logger.Debug("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Logger.Debug("Database connected")

	app.Logger.Debug("Connecting to redis")
	app.Redis, err = redisclient.NewClient(app.Ctx, app.Cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.Logger.Debug("Redis connected")

	app.SMS = smsclient.NewClient(app.Cfg.SMS.BaseURL, app.Cfg.SMSAPIKey, app.Cfg.SMS.Sender, app.Logger)

	return nil
}

func closeApp() {
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to close redis", zap.Error(err))
		}
		app.Redis = nil
	}
	if app.Database != nil {
		app.Database.Close()
		app.Database = nil
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
