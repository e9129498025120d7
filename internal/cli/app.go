package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/config"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/database"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/identity"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// app is the fully wired service graph shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	auth     *services.AuthService
	users    *services.UserService
	leaves   *services.LeaveService
	advances *services.AdvanceService
}

// loadApp reads the configuration, sets up logging and opens the database.
// migrate forces the schema migration regardless of AUTO_MIGRATE.
func loadApp(ctx context.Context, opts *RootOptions, migrate bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format, opts.Verbose)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	db, dialect, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if migrate || cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database schema up to date", "driver", dialect)
	}

	profiles := repositories.NewProfileRepository(db, dialect)
	provider := identity.NewLocal(repositories.NewIdentityRepository(db), cfg.JWT.Secret, cfg.JWT.TTL)

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		auth:   services.NewAuthService(provider, profiles, cfg.Accounts.EmailDomain),
		users: services.NewUserService(provider, profiles, services.UserServiceConfig{
			EmailDomain:     cfg.Accounts.EmailDomain,
			DefaultPassword: cfg.Accounts.DefaultPassword,
			RosterFile:      cfg.Accounts.RosterFile,
		}),
		leaves:   services.NewLeaveService(repositories.NewLeaveRepository(db), profiles),
		advances: services.NewAdvanceService(repositories.NewAdvanceRepository(db), profiles),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
