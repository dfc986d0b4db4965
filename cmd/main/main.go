package main

import (
	"birthdayy-bot/pkg"
	"birthdayy-bot/pkg/db"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/disgoorg/disgo"
	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	envFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "birthdayy",
		Short:        "Birthdayy announces the birthdays of your Discord server",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load instead of .env")
	rootCmd.AddCommand(runCmd, migrateCmd, syncCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of Birthdayy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "birthdayy %s (disgo %s)\n", version, disgo.Version)
	},
}

// setup loads the config and installs the default logger.
func setup() (*pkg.Config, error) {
	cfg, err := pkg.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: string(cfg.Environment),
		Release:     "birthdayy@" + version,
		EnableLogs:  true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if cfg.IsProduction() { // only send events in prod
				return event
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error while initializing sentry: %w", err)
	}

	logger := slog.New(slogmulti.Fanout(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.SlogLevel(),
		}),
		sentryHandler(context.Background())))
	slog.SetDefault(logger)
	return cfg, nil
}

// sentryHandler forwards warnings and errors as Sentry logs. Events are captured by pkg/report only.
func sentryHandler(ctx context.Context) slog.Handler {
	return sentryslog.Option{
		EventLevel: []slog.Level{},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(ctx)
}

func openDB(ctx context.Context, cfg *pkg.Config) (*pgxpool.Pool, *db.DB, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error while connecting to the database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("error while pinging the database: %w", err)
	}
	return pool, db.NewDB(pool), nil
}

func flush() {
	sentry.Flush(2 * time.Second)
}
