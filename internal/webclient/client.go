// Package webclient is a same-origin client of the gateway's JSON routes. It
// keeps the session cookie in a jar, the way a browser would.
package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"

	"quizownik/internal/backend"
	"quizownik/internal/i18n"
)

var ErrServiceUnavailable = errors.New("quizownik gateway unavailable")

type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	locale     i18n.Locale
	httpClient *http.Client
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHTTPClient(baseURL string, locale i18n.Locale, httpClient *http.Client) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if _, ok := i18n.Parse(string(locale)); !ok {
		locale = i18n.DefaultLocale
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, "create cookie jar")
		}
		withJar := *httpClient
		withJar.Jar = jar
		httpClient = &withJar
	}

	return &HTTPClient{
		baseURL:    baseURL,
		locale:     locale,
		httpClient: httpClient,
	}, nil
}

func (c *HTTPClient) Locale() i18n.Locale {
	return c.locale
}

// Login establishes a session and returns the page the UI should open next.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var payload redirectResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &payload); err != nil {
		return "", err
	}
	return payload.Redirect, nil
}

func (c *HTTPClient) Logout(ctx context.Context) (string, error) {
	var payload redirectResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, &payload); err != nil {
		return "", err
	}
	return payload.Redirect, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (backend.User, error) {
	var user backend.User
	if err := c.doJSON(ctx, http.MethodGet, "/user/profile", nil, &user); err != nil {
		return backend.User{}, err
	}
	return user, nil
}

func (c *HTTPClient) ListQuizzes(ctx context.Context, page, size int) (backend.QuizPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var payload backend.QuizPage
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes?"+query.Encode(), nil, &payload); err != nil {
		return backend.QuizPage{}, err
	}
	return payload, nil
}

func (c *HTTPClient) GetQuiz(ctx context.Context, id int64) (backend.Quiz, error) {
	var quiz backend.Quiz
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes/"+formatID(id), nil, &quiz); err != nil {
		return backend.Quiz{}, err
	}
	return quiz, nil
}

func (c *HTTPClient) CreateQuiz(ctx context.Context, input backend.QuizInput) error {
	return c.doJSON(ctx, http.MethodPost, "/quizzes", input, nil)
}

func (c *HTTPClient) UpdateQuiz(ctx context.Context, id int64, input backend.QuizInput) error {
	return c.doJSON(ctx, http.MethodPut, "/quizzes/"+formatID(id), input, nil)
}

func (c *HTTPClient) DeleteQuiz(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/quizzes/"+formatID(id), nil, nil)
}

func (c *HTTPClient) GenerateQuiz(ctx context.Context, request backend.GenerateRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/quizzes/generate", request, nil)
}

func (c *HTTPClient) ListQuestions(ctx context.Context, category string) ([]backend.Question, error) {
	path := "/questions"
	if category = strings.TrimSpace(category); category != "" {
		path += "?" + url.Values{"category": []string{category}}.Encode()
	}

	var questions []backend.Question
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *HTTPClient) CreateQuestion(ctx context.Context, question backend.Question) error {
	return c.doJSON(ctx, http.MethodPost, "/questions", question, nil)
}

func (c *HTTPClient) UpdateQuestion(ctx context.Context, id int64, question backend.Question) error {
	return c.doJSON(ctx, http.MethodPut, "/questions/"+formatID(id), question, nil)
}

func (c *HTTPClient) DeleteQuestion(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/questions/"+formatID(id), nil, nil)
}

func (c *HTTPClient) SubmitResult(ctx context.Context, result backend.QuizResult) error {
	return c.doJSON(ctx, http.MethodPost, "/results", result, nil)
}

func (c *HTTPClient) MyResults(ctx context.Context) ([]backend.ResultSummary, error) {
	var results []backend.ResultSummary
	if err := c.doJSON(ctx, http.MethodGet, "/results/me", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *HTTPClient) Leaderboard(ctx context.Context, limit int) ([]backend.LeaderboardEntry, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var entries []backend.LeaderboardEntry
	if err := c.doJSON(ctx, http.MethodGet, "/leaderboard?"+query.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + "/" + string(c.locale) + "/api" + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrap(ErrServiceUnavailable, err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
			apiErr.Fields = payload.Fields
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return errors.Wrapf(json.NewDecoder(response.Body).Decode(responseBody), "decode %s %s", method, path)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
