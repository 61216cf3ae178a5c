package internal

import (
	"net/http"
	"pcd/internal/controllers"
	"pcd/internal/providers"
	"pcd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/cycles/start", http.HandlerFunc(apiController.StartCycle))
	routers.Post("/cycles/stop", http.HandlerFunc(apiController.StopCycle))
	routers.Post("/cycles/endqna", http.HandlerFunc(apiController.EndQna))
	routers.Post("/cycles/completed", http.HandlerFunc(apiController.MarkCompleted))
	routers.Get("/cycles/snapshot", http.HandlerFunc(apiController.GetSnapshot))
	routers.Get("/cycles/events", http.HandlerFunc(apiController.StreamEvents))
	routers.Post("/votes", http.HandlerFunc(apiController.CastVote))
	routers.Post("/tokens/convert", http.HandlerFunc(apiController.ConvertTokens))
	routers.Post("/tokens/delta", http.HandlerFunc(apiController.ApplyTokenDelta))
	routers.Post("/ratings", http.HandlerFunc(apiController.SubmitRating))
	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/teams", http.HandlerFunc(apiController.GetTeams))
	routers.Post("/teams/register", http.HandlerFunc(apiController.RegisterTeam))
	routers.Get("/rounds", http.HandlerFunc(apiController.GetRounds))
	return routers
}
