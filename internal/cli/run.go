// Package cli is a terminal front end for the Quizownik gateway.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"quizownik/internal/admin"
	"quizownik/internal/backend"
	"quizownik/internal/i18n"
	"quizownik/internal/play"
	"quizownik/internal/webclient"
)

var logger = logrus.WithField("module", "CLI")

const (
	defaultServer            = "http://127.0.0.1:3000"
	defaultPageSize          = 10
	defaultLeaderboardLimit  = 10
	defaultHTTPTimeout       = 10 * time.Second
	defaultMaxInvalidAnswers = 3
	adminListSize            = 100
)

type Config struct {
	ServerURL         string
	Locale            i18n.Locale
	HTTPTimeout       time.Duration
	ReportTimeout     time.Duration
	MaxInvalidAnswers int
}

type app struct {
	client    *webclient.HTTPClient
	serverURL string
	reader    *bufio.Reader
	out       io.Writer

	user              *backend.User
	machine           *play.Machine
	reportTimeout     time.Duration
	maxInvalidAnswers int

	quizzes   *admin.Board[backend.Quiz]
	questions *admin.Board[backend.Question]
	category  *questionResource
	generator *admin.Generator
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}

	client, err := webclient.NewHTTPClient(serverURL, cfg.Locale, &http.Client{Timeout: timeout})
	if err != nil {
		return err
	}

	a := newApp(client, serverURL, bufio.NewReader(in), out)
	a.reportTimeout = cfg.ReportTimeout
	a.maxInvalidAnswers = maxInvalidAnswers

	fmt.Fprintf(out, "quizownik\nserver=%s\nlocale=%s\n\n", serverURL, client.Locale())
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if strings.ToLower(args[0]) == "exit" {
			return nil
		}
		if err := a.dispatch(ctx, args); err != nil {
			fmt.Fprintf(out, "error: %v\n", a.describe(err))
		}
	}
}

func newApp(client *webclient.HTTPClient, serverURL string, reader *bufio.Reader, out io.Writer) *app {
	category := &questionResource{client: client}
	return &app{
		client:            client,
		serverURL:         serverURL,
		reader:            reader,
		out:               out,
		machine:           play.NewMachine(),
		maxInvalidAnswers: defaultMaxInvalidAnswers,
		quizzes:           admin.NewBoard[backend.Quiz]("quizzes", &quizResource{client: client}),
		questions:         admin.NewBoard[backend.Question]("questions", category),
		category:          category,
		generator: admin.NewGenerator(func(ctx context.Context, request backend.GenerateRequest) error {
			return client.GenerateQuiz(ctx, request)
		}),
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch strings.ToLower(args[0]) {
	case "help":
		printHelp(a.out)
	case "login":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "usage: login <email>")
			return nil
		}
		return a.runLogin(ctx, args[1])
	case "logout":
		return a.runLogout(ctx)
	case "profile":
		return a.runProfile(ctx)
	case "quizzes":
		page, err := parseNonNegative(args, 1, 0)
		if err != nil {
			fmt.Fprintf(a.out, "invalid page: %v\n", err)
			return nil
		}
		return a.runQuizzes(ctx, page)
	case "play":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "usage: play <quiz_id>")
			return nil
		}
		id, err := parseID(args[1])
		if err != nil {
			fmt.Fprintf(a.out, "invalid quiz id: %v\n", err)
			return nil
		}
		return a.runPlay(ctx, id)
	case "leaderboard":
		limit, err := parsePositiveLimit(args, 1, defaultLeaderboardLimit)
		if err != nil {
			fmt.Fprintf(a.out, "invalid leaderboard limit: %v\n", err)
			return nil
		}
		return a.runLeaderboard(ctx, limit)
	case "results":
		return a.runResults(ctx)
	case "admin":
		return a.runAdmin(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "unknown command. type 'help' for usage.")
	}
	return nil
}

func (a *app) runLogin(ctx context.Context, email string) error {
	fmt.Fprint(a.out, "Password: ")
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return errors.Wrap(err, "read password")
	}

	if _, err := a.client.Login(ctx, email, strings.TrimRight(line, "\r\n")); err != nil {
		return err
	}
	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	a.user = &user
	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", displayName(user), user.Role)
	return nil
}

func (a *app) runLogout(ctx context.Context) error {
	if _, err := a.client.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	a.machine.Reset()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) runProfile(ctx context.Context) error {
	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	a.user = &user

	fmt.Fprintf(a.out, "%s %s (@%s)\n", user.FirstName, user.LastName, user.Username)
	fmt.Fprintf(a.out, "email: %s\nrole: %s\n", user.Email, user.Role)
	if user.Level != "" {
		fmt.Fprintf(a.out, "level: %s\n", user.Level)
	}
	fmt.Fprintf(a.out, "solved: %d, mastered: %d\n", user.SolvedQuizzes, user.MasteredQuizzes)
	return nil
}

func (a *app) runQuizzes(ctx context.Context, page int) error {
	result, err := a.client.ListQuizzes(ctx, page, defaultPageSize)
	if err != nil {
		return err
	}
	if len(result.Content) == 0 {
		fmt.Fprintln(a.out, "No quizzes.")
		return nil
	}

	fmt.Fprintf(a.out, "Quizzes (page %d of %d):\n", result.Number+1, max(result.TotalPages, 1))
	for _, quiz := range result.Content {
		printQuizLine(a.out, quiz)
	}
	return nil
}

func (a *app) runLeaderboard(ctx context.Context, limit int) error {
	entries, err := a.client.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No leaderboard entries.")
		return nil
	}

	fmt.Fprintln(a.out, "Leaderboard:")
	for idx, entry := range entries {
		fmt.Fprintf(a.out, "%d. %s score=%d", idx+1, entry.Username, entry.Score)
		if entry.Level != "" {
			fmt.Fprintf(a.out, " level=%s", entry.Level)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *app) runResults(ctx context.Context) error {
	results, err := a.client.MyResults(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No results yet.")
		return nil
	}

	fmt.Fprintln(a.out, "Your results:")
	for _, result := range results {
		name := result.QuizName
		if name == "" {
			name = fmt.Sprintf("quiz %d", result.QuizID)
		}
		fmt.Fprintf(a.out, "- %s: %d/%d in %ds (%s)\n",
			name,
			result.CorrectAnswers,
			result.CorrectAnswers+result.FailAnswers,
			result.Duration,
			result.FinishedAt,
		)
	}
	return nil
}

// currentUser returns the logged-in user, fetching the profile once.
func (a *app) currentUser(ctx context.Context) (backend.User, error) {
	if a.user != nil {
		return *a.user, nil
	}
	user, err := a.client.Profile(ctx)
	if err != nil {
		return backend.User{}, err
	}
	a.user = &user
	return user, nil
}

func (a *app) describe(err error) error {
	if errors.Is(err, webclient.ErrServiceUnavailable) {
		return errors.Errorf("quizownik unavailable at %s", a.serverURL)
	}

	var apiErr *webclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			a.user = nil
		}
		if len(apiErr.Fields) > 0 {
			return errors.Errorf("%s %s", apiErr.Message, formatFields(apiErr.Fields))
		}
		return apiErr
	}
	logger.WithError(err).Debug("command failed")
	return err
}
