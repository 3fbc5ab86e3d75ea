package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"bclub/backend/libs/auth"
	libdb "bclub/backend/libs/db"
	"bclub/backend/libs/httpmw"
	"bclub/backend/libs/server"
	appconfig "bclub/backend/services/auth-service/internal/config"
	"bclub/backend/services/auth-service/internal/http"
	"bclub/backend/services/auth-service/internal/http/handlers"
	"bclub/backend/services/auth-service/internal/password"
	"bclub/backend/services/auth-service/internal/repository"
	"bclub/backend/services/auth-service/internal/service"
)

// App wires dependencies for the auth service.
type App struct {
	server *server.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN, libdb.PoolOptions{MaxOpenConns: cfg.Database.MaxOpenConns})
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	hasher, err := password.NewBcryptHasher(cfg.Password.BcryptCost)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, logger)

	routes := httpserver.Routes{
		Login:              handlers.NewLoginHandler(authSvc),
		ListUsers:          handlers.NewListUsersHandler(authSvc),
		CreateUser:         handlers.NewCreateUserHandler(authSvc),
		DeleteUser:         handlers.NewDeleteUserHandler(authSvc),
		UpdateCapabilities: handlers.NewUpdateCapabilitiesHandler(authSvc),
		Me:                 handlers.NewMeHandler(authSvc),
		Health:             handlers.NewHealthHandler(sqlDB),
	}

	router := httpserver.NewRouter(routes, tokenSvc)
	srv := server.New(cfg.HTTPAddress(), router, logger, server.Options{},
		httpmw.RequestID,
		httpmw.Logging(logger),
		httpmw.Recovery(logger),
	)

	return &App{
		server: srv,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
