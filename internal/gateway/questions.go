package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"quizownik/internal/i18n"
)

func (a *API) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.ListQuestions(ctx, token, category)
	})
}

func (a *API) HandleQuestionCategories(w http.ResponseWriter, r *http.Request) {
	a.forward(w, r, outcome{}, a.backend.QuestionCategories)
}

func (a *API) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !a.decode(w, r, &req) || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.CreateQuestion(ctx, token, req.question())
	})
}

func (a *API) HandleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var req questionRequest
	if !a.decode(w, r, &req) || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.UpdateQuestion(ctx, token, id, req.question())
	})
}

func (a *API) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{success: i18n.Deleted}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return nil, a.backend.DeleteQuestion(ctx, token, id)
	})
}
