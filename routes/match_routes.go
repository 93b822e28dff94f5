package routes

import (
	"net/http"

	"matchmaking_server/controllers"
	"matchmaking_server/middleware"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match slot operations under /api/match.
// auth must resolve the caller; refillLimiter throttles searches per user.
func RegisterMatchRoutes(r *mux.Router, matchService controllers.MatchOperations, auth mux.MiddlewareFunc, refillLimiter *middleware.UserRateLimiter) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.Use(auth)

	var refill http.Handler = http.HandlerFunc(controller.HandleRefill)
	if refillLimiter != nil {
		refill = refillLimiter.Middleware(refill)
	}
	matchRouter.Handle("/refill", refill).Methods("POST")
	matchRouter.HandleFunc("/action", controller.HandleAction).Methods("POST")
	matchRouter.HandleFunc("/sync", controller.HandleSync).Methods("POST")
	matchRouter.HandleFunc("/slots", controller.HandleGetSlots).Methods("GET")
}
