package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/streaky/internal/api"
	"github.com/terraincognita07/streaky/internal/cli"
	"github.com/terraincognita07/streaky/internal/config"
	"github.com/terraincognita07/streaky/internal/db"
	"github.com/terraincognita07/streaky/internal/logging"
	"github.com/terraincognita07/streaky/internal/metrics"
	"github.com/terraincognita07/streaky/internal/ratelimit"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "streaky",
		Short:         "Habit tracker with streaks, calendars and journals",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context())
			},
		},
		newMigrateCommand(),
		&cobra.Command{
			Use:   "create-user <username>",
			Short: "Create a user, reading the password from stdin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(database *gorm.DB, _ config.Config) error {
					readPassword := cli.TerminalPasswordReader(os.Stdin, cmd.ErrOrStderr())
					return cli.RunCreateUser(database, args[0], readPassword, cmd.OutOrStdout())
				})
			},
		},
		&cobra.Command{
			Use:   "reset-password <username>",
			Short: "Replace a user's password with a generated temporary one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(database *gorm.DB, _ config.Config) error {
					return cli.RunResetPassword(database, args[0], cmd.OutOrStdout())
				})
			},
		},
	)
	return root
}

func newMigrateCommand() *cobra.Command {
	var dryRun bool
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(false)
			if err != nil {
				return err
			}
			database, err := db.Open(databaseConfig(cfg, nil, true))
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer closeDatabase(database)
			return cli.RunMigrate(database, cfg.DBDriver, dryRun, cmd.OutOrStdout())
		},
	}
	command.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying them")
	return command
}

func withDatabase(run func(*gorm.DB, config.Config) error) error {
	cfg, err := config.Load(false)
	if err != nil {
		return err
	}
	database, err := db.Open(databaseConfig(cfg, nil, false))
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)
	return run(database, cfg)
}

func databaseConfig(cfg config.Config, logger *zap.Logger, skipMigrations bool) db.Config {
	return db.Config{
		Driver:         cfg.DBDriver,
		Path:           cfg.DBPath,
		DSN:            cfg.DatabaseURL,
		Logger:         logger,
		SkipMigrations: skipMigrations,
	}
}

func closeDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load(true)
	if err != nil {
		return err
	}
	time.Local = cfg.Location

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, err := db.Open(databaseConfig(cfg, logger, false))
	if err != nil {
		logger.Error("database_init_failed", zap.Error(err))
		return err
	}
	defer closeDatabase(database)
	warnWhenNoUsers(logger, database)

	if parent == nil {
		parent = context.Background()
	}
	limiter, closeLimiter, err := newLoginLimiter(parent, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	handler, err := api.NewHandler(database, api.Options{
		SecretKey:   cfg.SecretKey,
		TokenTTL:    cfg.AccessTokenTTL,
		Location:    cfg.Location,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		Logger:      logger,
		Metrics:     metrics.New(),
		Limiter:     limiter,
	})
	if err != nil {
		logger.Error("handler_init_failed", zap.Error(err))
		return err
	}

	app := newApp(cfg, handler, logger)

	sigCtx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server_shutdown_failed", zap.Error(err))
		}
	}()

	logger.Info("server_listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("db_driver", db.NormalizeDriver(cfg.DBDriver)),
		zap.String("tz", cfg.Location.String()),
		zap.String("environment", cfg.Environment),
		zap.String("version", cfg.Version),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server_exited", zap.Error(err))
		return err
	}
	logger.Info("server_stopped")
	return nil
}

func newApp(cfg config.Config, handler *api.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Streaky",
		DisableStartupMessage: true,
		ErrorHandler:          api.ErrorHandler,
	})

	app.Use(recover.New(recoverMiddlewareConfig(logger)))
	app.Use(handler.RequestContext)
	if len(cfg.AllowedOrigins) > 0 {
		app.Use(cors.New(corsMiddlewareConfig(cfg.AllowedOrigins)))
	}
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

func recoverMiddlewareConfig(logger *zap.Logger) recover.Config {
	return recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, panicValue interface{}) {
			logger.Error("panic_recovered",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Any("panic", panicValue),
				zap.Stack("stack"),
			)
		},
	}
}

func corsMiddlewareConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:  strings.Join(origins, ","),
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Authorization,Content-Type,X-Request-ID",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        600,
	}
}

func newLoginLimiter(ctx context.Context, cfg config.Config, logger *zap.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.LoginAttemptLimit, cfg.LoginAttemptWindow), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := ratelimit.NewRedisClient(connectCtx, cfg.RedisAddr)
	if err != nil {
		logger.Error("redis_connect_failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return nil, nil, err
	}
	logger.Info("login_limiter_redis", zap.String("addr", cfg.RedisAddr))
	return ratelimit.NewRedisLimiter(client, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow), func() {
		_ = client.Close()
	}, nil
}

func warnWhenNoUsers(logger *zap.Logger, database *gorm.DB) {
	count, err := db.NewUserRepository(database).CountUsers()
	if err != nil {
		logger.Warn("user_count_failed", zap.Error(err))
		return
	}
	if count == 0 {
		logger.Warn("no_users_registered", zap.String("hint", "POST /auth/register or run streaky create-user"))
	}
}
