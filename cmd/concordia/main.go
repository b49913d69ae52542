package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"concordia/config"
	"concordia/internal/delivery"
	"concordia/internal/delivery/http"
	"concordia/internal/delivery/http/middleware"
	"concordia/internal/delivery/http/router/handler"
	"concordia/internal/infra/auth"
	"concordia/internal/infra/auth/google"
	logs "concordia/internal/infra/log"
	"concordia/internal/infra/persistence/store"
	"concordia/internal/infra/spreadsheet"
	"concordia/internal/usecase"
	"concordia/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

type seedAdminParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	AuthUC usecase.AuthUsecase
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedAdmin,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		store.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			store.NewCredentialRepository,
			store.NewStudentRepository,
			store.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewAuthService,
			spreadsheet.NewRosterSheet,
			spreadsheet.NewBundleReportWriter,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewRosterService,
			impl.NewBundleService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewStudentHandler,
			handler.NewBundleHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedAdmin creates auth.seedAdmin once the store is migrated. Nothing is seeded when it is unset.
func seedAdmin(params seedAdminParams) {
	seed := params.Config.Auth.SeedAdmin
	if seed == nil {
		return
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			created, err := params.AuthUC.EnsureAccount(ctx, &usecase.CredentialsInput{
				Username: seed.Username,
				Password: seed.Password,
			})
			if err != nil {
				return err
			}
			if created {
				params.Logger.Info("Seed account created", slog.String("username", seed.Username))
			}

			return nil
		},
	})
}

func startServer(params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(context.Background()); err != nil {
						params.Logger.Error("Failed to start server", slog.Any("error", err))
						if shutdownErr := params.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
							os.Exit(1)
						}
					}
				}()
			}

			return nil
		},
	})
}
