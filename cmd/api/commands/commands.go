package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vimtodo/core/internal/adapters/repository"
	"github.com/vimtodo/core/internal/application/services"
	"github.com/vimtodo/core/internal/application/stats"
	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/infrastructure/config"
	"github.com/vimtodo/core/internal/infrastructure/database"
	"github.com/vimtodo/core/internal/infrastructure/logger"
	"github.com/vimtodo/core/internal/infrastructure/server"
	"github.com/vimtodo/core/internal/ports"
)

// Build metadata, set with -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "development"
	BuildDate = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the vimtodo API server",
		Long:  "Start the vimtodo API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	for _, direction := range []database.Direction{database.Up, database.Down} {
		direction := direction
		cmd := &cobra.Command{
			Use:   string(direction),
			Short: fmt.Sprintf("Run %s migrations", direction),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, _ := cmd.Flags().GetInt("steps")
				return runMigration(cmd, direction, steps)
			},
		}
		cmd.Flags().Int("steps", 0, "Number of migrations to apply (0 = all)")
		migrateCmd.AddCommand(cmd)
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(_ *config.Config, db *database.DB) error {
				version, dirty, err := db.MigrationVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			return withDatabase(func(cfg *config.Config, db *database.DB) error {
				authService := services.NewAuthService(
					repository.NewUserRepository(db.DB),
					repository.NewAuthRepository(db.DB),
					cfg.JWT,
					logger.NewNop(),
				)
				user, err := authService.CreateUser(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User created successfully:\n")
				fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", user.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  Email: %s\n", user.Email)
				return nil
			})
		},
	}

	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

// NewStatsCommand prints a user's completion statistics and heat-map.
func NewStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			tz, _ := cmd.Flags().GetString("tz")
			if email == "" {
				return errors.New("email is required")
			}

			now := time.Now()
			if tz != "" {
				loc, err := time.LoadLocation(tz)
				if err != nil {
					return fmt.Errorf("unknown time zone %q: %w", tz, err)
				}
				now = now.In(loc)
			}

			return withDatabase(func(_ *config.Config, db *database.DB) error {
				ctx := cmd.Context()
				user, err := repository.NewUserRepository(db.DB).GetByEmail(ctx, email)
				if err != nil {
					return err
				}

				summary, err := ownerSummary(ctx, repository.NewTaskRepository(db.DB), user.ID, now)
				if err != nil {
					return err
				}
				renderSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}

	statsCmd.Flags().String("email", "", "User email (required)")
	statsCmd.Flags().String("tz", "", "IANA time zone for day boundaries (default: local)")
	return statsCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print vimtodo version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vimtodo %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Errorw("Failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(database.Up, 0); err != nil {
		appLogger.Errorw("Failed to apply migrations", "error", err)
		return err
	}

	srv, err := server.New(cfg, db, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Infow("Starting vimtodo API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	})
	g.Go(func() error {
		srv.RunSweeper(gctx, cfg.Autosave.SessionIdle)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Errorw("Server stopped with error", "error", err)
		return err
	}
	appLogger.Infow("Server stopped")
	return nil
}

func runMigration(cmd *cobra.Command, direction database.Direction, steps int) error {
	return withDatabase(func(_ *config.Config, db *database.DB) error {
		changed, err := db.Migrate(direction, steps)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
		return nil
	})
}

func withDatabase(fn func(cfg *config.Config, db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(cfg, db)
}

// ownerSummary computes statistics from the stored tasks alone, leaving
// every other owner record untouched.
func ownerSummary(ctx context.Context, tasks ports.TaskRepository, owner uuid.UUID, now time.Time) (stats.Summary, error) {
	rows, err := tasks.List(ctx, owner)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	list := make([]entities.Task, 0, len(rows))
	for _, t := range rows {
		if t != nil {
			list = append(list, *t)
		}
	}
	return stats.Compute(list, now), nil
}
