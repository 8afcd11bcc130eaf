package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver PrincipalResolver) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, resolver, fn)
	}

	mux.Handle("GET /v1/me", auth(handler.GetMe))
	mux.Handle("GET /v1/matches", auth(handler.ListMatches))
	mux.Handle("GET /v1/matches/{matchID}/bets", auth(handler.ListMatchBets))
	mux.Handle("GET /v1/leaderboard", auth(handler.GetLeaderboard))
	mux.Handle("POST /v1/bets", auth(handler.PlaceBet))
	mux.Handle("PUT /v1/bets/{betID}", auth(handler.ChangeBet))
	mux.Handle("DELETE /v1/bets/{betID}", auth(handler.DeleteBet))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, resolver PrincipalResolver) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, resolver, RequireAdmin(fn))
	}

	mux.Handle("POST /v1/admin/matches/{matchID}/score", admin(handler.ScoreMatch))
	mux.Handle("PATCH /v1/admin/matches/{matchID}", admin(handler.UpdateMatchOdds))
	mux.Handle("GET /v1/admin/users", admin(handler.ListUsers))
	mux.Handle("PATCH /v1/admin/users/{userID}", admin(handler.UpdateUser))
}
