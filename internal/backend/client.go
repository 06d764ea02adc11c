package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"quizownik/internal/fault"
)

var logger = logrus.WithField("module", "Backend")

const maxErrorBody = 64 << 10

// Client talks to the external quiz API. Every call except registration and
// authentication carries the caller's bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) Register(ctx context.Context, registration Registration) (string, error) {
	var payload tokenResponse
	if err := c.doInto(ctx, http.MethodPost, "/auth/register", "", registration, &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Token) == "" {
		return "", errors.New("register: empty token in response")
	}
	return payload.Token, nil
}

func (c *Client) Authenticate(ctx context.Context, credentials Credentials) (string, error) {
	var payload tokenResponse
	if err := c.doInto(ctx, http.MethodPost, "/auth/authenticate", "", credentials, &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Token) == "" {
		return "", errors.New("authenticate: empty token in response")
	}
	return payload.Token, nil
}

// WhoAmI resolves the identity behind token.
func (c *Client) WhoAmI(ctx context.Context, token string) (User, error) {
	var user User
	if err := c.doInto(ctx, http.MethodGet, "/users/me", token, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *Client) Profile(ctx context.Context, token string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/users/me", token, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token string, change PasswordChange) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, "/users/me/password", token, change)
}

func (c *Client) ListQuizzes(ctx context.Context, token string, filter QuizFilter) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(filter.Page))
	query.Set("size", strconv.Itoa(filter.Size))
	if filter.Sort != "" {
		query.Set("sort", filter.Sort)
	}
	if filter.Category != nil {
		query.Set("category", strconv.FormatInt(*filter.Category, 10))
	}
	if filter.Level != "" {
		query.Set("level", string(filter.Level))
	}
	return c.do(ctx, http.MethodGet, "/quizzes/sorted?"+query.Encode(), token, nil)
}

func (c *Client) GetQuiz(ctx context.Context, token string, id int64) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/quizzes/"+formatID(id), token, nil)
}

func (c *Client) CreateQuiz(ctx context.Context, token string, input QuizInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/quizzes", token, input)
}

func (c *Client) UpdateQuiz(ctx context.Context, token string, id int64, input QuizInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/quizzes/"+formatID(id), token, input)
}

func (c *Client) DeleteQuiz(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/quizzes/"+formatID(id), token, nil)
	return err
}

func (c *Client) GenerateQuiz(ctx context.Context, token string, request GenerateRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/quizzes/generate", token, request)
}

func (c *Client) ListQuestions(ctx context.Context, token, category string) (json.RawMessage, error) {
	path := "/questions"
	if category = strings.TrimSpace(category); category != "" {
		path += "?" + url.Values{"category": []string{category}}.Encode()
	}
	return c.do(ctx, http.MethodGet, path, token, nil)
}

func (c *Client) QuestionCategories(ctx context.Context, token string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/questions/categories", token, nil)
}

func (c *Client) CreateQuestion(ctx context.Context, token string, question Question) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/questions", token, question)
}

func (c *Client) UpdateQuestion(ctx context.Context, token string, id int64, question Question) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/questions/"+formatID(id), token, question)
}

func (c *Client) DeleteQuestion(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/questions/"+formatID(id), token, nil)
	return err
}

func (c *Client) SubmitResult(ctx context.Context, token string, result QuizResult) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/results", token, result)
}

func (c *Client) MyResults(ctx context.Context, token string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/results/me", token, nil)
}

func (c *Client) CategoryPlots(ctx context.Context, token string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/results/plots", token, nil)
}

func (c *Client) Leaderboard(ctx context.Context, token string, limit int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return c.do(ctx, http.MethodGet, "/leaderboard?"+query.Encode(), token, nil)
}

func (c *Client) doInto(ctx context.Context, method, path, token string, requestBody any, responseBody any) error {
	raw, err := c.do(ctx, method, path, token, requestBody)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return errors.Errorf("%s %s: empty response body", method, path)
	}
	return errors.Wrapf(json.Unmarshal(raw, responseBody), "decode %s %s", method, path)
}

// do returns the raw body of a 2xx response, nil for an empty one. Non-2xx
// responses become upstream faults and transport failures transport faults.
func (c *Client) do(ctx context.Context, method, path, token string, requestBody any) (json.RawMessage, error) {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-ID", requestID(ctx))
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("external api unreachable")
		return nil, fault.NewTransport(err)
	}
	defer response.Body.Close()

	logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   response.StatusCode,
		"duration": time.Since(started),
	}).Debug("external api call")

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		// Best effort: a failed read still yields an upstream fault with whatever arrived.
		payload, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return nil, fault.NewUpstream(response.StatusCode, payload)
	}

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fault.NewTransport(errors.Wrap(err, "read response body"))
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	if !json.Valid(payload) {
		return nil, errors.Errorf("%s %s: response is not json (%d bytes)", method, path, len(payload))
	}
	return json.RawMessage(payload), nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func formatID(id int64) string {
	return url.PathEscape(strconv.FormatInt(id, 10))
}
