package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

const defaultLeaderboardLimit = 10

func (a *API) HandleSubmitResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !a.decode(w, r, &req) {
		return
	}

	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.SubmitResult(ctx, token, req.result())
	})
}

func (a *API) HandleMyResults(w http.ResponseWriter, r *http.Request) {
	a.forward(w, r, outcome{}, a.backend.MyResults)
}

func (a *API) HandleCategoryPlots(w http.ResponseWriter, r *http.Request) {
	a.forward(w, r, outcome{}, a.backend.CategoryPlots)
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultLeaderboardLimit, func(v int) bool { return v > 0 })
	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.Leaderboard(ctx, token, limit)
	})
}
