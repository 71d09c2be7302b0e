package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/commerce/internal/config"
	"github.com/deppfellow/commerce/internal/database"
	"github.com/deppfellow/commerce/internal/handler"
	"github.com/deppfellow/commerce/internal/logger"
	"github.com/deppfellow/commerce/internal/middleware"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/deppfellow/commerce/internal/router"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	migrationTimeout = 60 * time.Second
	shutdownTimeout  = 30 * time.Second
)

func main() {
	root := &cobra.Command{
		Use:           "commerce",
		Short:         "Commerce admin and storefront API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), userCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger every command shares.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return cfg, loggerService, log, nil
}

func migrate(cfg *config.Config, log *zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()
	return database.Migrate(ctx, log, cfg.Database.DSN())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			if cfg.Primary.Env != "local" {
				if err := migrate(cfg, &log); err != nil {
					log.Fatal().Err(err).Msg("failed to migrate database")
				}
			}

			srv, err := server.New(cfg, &log, loggerService)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize server")
			}

			repos := repository.NewRepositories(srv)
			services := service.NewServices(srv, repos)
			middlewares := middleware.NewMiddlewares(srv, services.Auth)
			handlers := handler.NewHandlers(srv, services)

			srv.SetupHTTPServer(router.NewRouter(srv, handlers, middlewares))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("failed to start server")
				}
			}()

			<-ctx.Done()
			log.Info().Msg("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server forced to shutdown")
				return err
			}

			log.Info().Msg("server exited properly")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			return migrate(cfg, &log)
		},
	}
}

func userCmd() *cobra.Command {
	var in service.CreateUserInput
	var role string

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create an admin user and print its API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = model.UserRole(role)
			switch in.Role {
			case model.UserRoleAdmin, model.UserRoleMember, model.UserRoleDeveloper:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			db, err := database.New(cfg, &log, loggerService)
			if err != nil {
				return err
			}
			defer db.Close()

			auth := service.NewAuthService(
				repository.NewUserRepository(db.Pool),
				repository.NewCustomerRepository(db.Pool),
				cfg.Auth.JWTSecret,
				cfg.Auth.TokenTTL,
				nil,
			)

			user, err := auth.CreateUser(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user created")
			if user.APIToken != nil {
				fmt.Fprintln(cmd.OutOrStdout(), *user.APIToken)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Email, "email", "", "email address")
	flags.StringVar(&in.Password, "password", "", "password")
	flags.StringVar(&in.FirstName, "first-name", "", "first name")
	flags.StringVar(&in.LastName, "last-name", "", "last name")
	flags.StringVar(&role, "role", string(model.UserRoleAdmin), "admin, member or developer")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
