package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"quizownik/internal/backend"
	"quizownik/internal/i18n"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultSort     = "id"
)

var sortableFields = map[string]bool{
	"id":       true,
	"name":     true,
	"category": true,
	"level":    true,
}

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	filter := parseQuizFilter(r)
	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.ListQuizzes(ctx, token, filter)
	})
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	notFound := outcome{statusKeys: map[int]i18n.Key{http.StatusNotFound: i18n.QuizNotFound}}
	a.forward(w, r, notFound, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.GetQuiz(ctx, token, id)
	})
}

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if !a.decode(w, r, &req) || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.CreateQuiz(ctx, token, req.input())
	})
}

func (a *API) HandleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var req quizRequest
	if !a.decode(w, r, &req) || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.UpdateQuiz(ctx, token, id, req.input())
	})
}

func (a *API) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{success: i18n.Deleted}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return nil, a.backend.DeleteQuiz(ctx, token, id)
	})
}

func (a *API) HandleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !a.decode(w, r, &req) || !a.requireAdmin(w, r) {
		return
	}

	a.forward(w, r, outcome{}, func(ctx context.Context, token string) (json.RawMessage, error) {
		return a.backend.GenerateQuiz(ctx, token, req.request())
	})
}

// parseQuizFilter never rejects: bad values fall back to their defaults.
func parseQuizFilter(r *http.Request) backend.QuizFilter {
	query := r.URL.Query()
	filter := backend.QuizFilter{
		Page: parseIntQuery(r, "page", 0, func(v int) bool { return v >= 0 }),
		Size: parseIntQuery(r, "size", defaultPageSize, func(v int) bool { return v >= 1 && v <= maxPageSize }),
		Sort: defaultSort,
	}

	if sort := strings.ToLower(strings.TrimSpace(query.Get("sort"))); sortableFields[sort] {
		filter.Sort = sort
	}
	if category, err := strconv.ParseInt(strings.TrimSpace(query.Get("category")), 10, 64); err == nil {
		filter.Category = &category
	}
	if level, ok := backend.ParseLevel(query.Get("level")); ok {
		filter.Level = level
	}
	return filter
}
