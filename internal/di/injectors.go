//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"pcd/internal"
	"pcd/internal/competition"
	"pcd/internal/controllers"
	"pcd/internal/models"
	"pcd/internal/providers"
	"pcd/internal/services"
	"pcd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewClockProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		models.NewStore,
		competition.NewZstdCompressor,
		competition.NewBroadcaster,
		competition.NewFileStore,
		competition.NewScheduler,

		services.NewCycleService,
		services.NewTeamService,
		services.NewVoteService,
		services.NewTokenService,
		services.NewRatingService,
		services.NewScoringService,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
