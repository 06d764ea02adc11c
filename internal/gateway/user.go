package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"quizownik/internal/account"
	"quizownik/internal/i18n"
)

func (a *API) HandleProfile(w http.ResponseWriter, r *http.Request) {
	a.forward(w, r, outcome{}, a.backend.Profile)
}

func (a *API) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req account.PasswordChangeRequest
	if !a.decode(w, r, &req) {
		return
	}

	a.forward(w, r, outcome{success: i18n.PasswordChanged}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.ChangePassword(ctx, token, req.Change())
	})
}
