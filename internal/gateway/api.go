package gateway

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"quizownik/internal/backend"
	"quizownik/internal/i18n"
	"quizownik/internal/session"
)

var logger = logrus.WithField("module", "Gateway")

// Backend is the part of the external API the gateway forwards to.
type Backend interface {
	Register(ctx context.Context, registration backend.Registration) (string, error)
	Authenticate(ctx context.Context, credentials backend.Credentials) (string, error)
	WhoAmI(ctx context.Context, token string) (backend.User, error)
	Profile(ctx context.Context, token string) (json.RawMessage, error)
	ChangePassword(ctx context.Context, token string, change backend.PasswordChange) (json.RawMessage, error)

	ListQuizzes(ctx context.Context, token string, filter backend.QuizFilter) (json.RawMessage, error)
	GetQuiz(ctx context.Context, token string, id int64) (json.RawMessage, error)
	CreateQuiz(ctx context.Context, token string, input backend.QuizInput) (json.RawMessage, error)
	UpdateQuiz(ctx context.Context, token string, id int64, input backend.QuizInput) (json.RawMessage, error)
	DeleteQuiz(ctx context.Context, token string, id int64) error
	GenerateQuiz(ctx context.Context, token string, request backend.GenerateRequest) (json.RawMessage, error)

	ListQuestions(ctx context.Context, token, category string) (json.RawMessage, error)
	QuestionCategories(ctx context.Context, token string) (json.RawMessage, error)
	CreateQuestion(ctx context.Context, token string, question backend.Question) (json.RawMessage, error)
	UpdateQuestion(ctx context.Context, token string, id int64, question backend.Question) (json.RawMessage, error)
	DeleteQuestion(ctx context.Context, token string, id int64) error

	SubmitResult(ctx context.Context, token string, result backend.QuizResult) (json.RawMessage, error)
	MyResults(ctx context.Context, token string) (json.RawMessage, error)
	CategoryPlots(ctx context.Context, token string) (json.RawMessage, error)
	Leaderboard(ctx context.Context, token string, limit int) (json.RawMessage, error)
}

type Options struct {
	// AdminGuard makes quiz and question mutations require the ADMIN role.
	AdminGuard    bool
	DefaultLocale i18n.Locale
	Translator    i18n.Translator
}

type API struct {
	backend       Backend
	sessions      *session.Store
	translate     i18n.Translator
	adminGuard    bool
	defaultLocale i18n.Locale
}

func NewAPI(b Backend, sessions *session.Store, opts Options) *API {
	translate := opts.Translator
	if translate == nil {
		translate = i18n.Message
	}
	defaultLocale, ok := i18n.Parse(string(opts.DefaultLocale))
	if !ok {
		defaultLocale = i18n.DefaultLocale
	}
	return &API{
		backend:       b,
		sessions:      sessions,
		translate:     translate,
		adminGuard:    opts.AdminGuard,
		defaultLocale: defaultLocale,
	}
}
