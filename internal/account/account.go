package account

import (
	"net/http"
	"strings"

	"quizownik/internal/backend"
	"quizownik/internal/fault"
	"quizownik/internal/i18n"
)

const (
	FieldForm  = "form"
	FieldEmail = "email"
)

type Code string

const (
	CodeEmailTaken         Code = "email_taken"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeAccountBlocked     Code = "account_blocked"
	CodeTooManyRequests    Code = "too_many_requests"
	CodeServerError        Code = "server_error"
)

func (c Code) MessageKey() i18n.Key {
	switch c {
	case CodeEmailTaken:
		return i18n.EmailTaken
	case CodeInvalidCredentials:
		return i18n.InvalidCredentials
	case CodeAccountBlocked:
		return i18n.AccountBlocked
	case CodeTooManyRequests:
		return i18n.TooManyRequests
	default:
		return i18n.ServerError
	}
}

type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"notblank,max=50"`
	LastName        string `json:"lastName" validate:"notblank,max=50"`
	Username        string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (r SignupRequest) Registration() backend.Registration {
	return backend.Registration{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Username:  strings.TrimSpace(r.Username),
		Email:     normalizeEmail(r.Email),
		Password:  r.Password,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Credentials() backend.Credentials {
	return backend.Credentials{
		Email:    normalizeEmail(r.Email),
		Password: r.Password,
	}
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func (r PasswordChangeRequest) Change() backend.PasswordChange {
	return backend.PasswordChange{
		CurrentPassword: r.CurrentPassword,
		NewPassword:     r.NewPassword,
	}
}

// Failure is the outcome of a rejected signup or login, ready for the UI.
type Failure struct {
	Status int
	Field  string
	Code   Code
}

// LoginFailure maps an authenticate error onto a field error.
func LoginFailure(err error) Failure {
	switch fault.StatusOf(err) {
	case http.StatusUnauthorized:
		return Failure{Status: http.StatusUnauthorized, Field: FieldForm, Code: CodeInvalidCredentials}
	case http.StatusForbidden:
		return Failure{Status: http.StatusForbidden, Field: FieldForm, Code: CodeAccountBlocked}
	case http.StatusTooManyRequests:
		return Failure{Status: http.StatusTooManyRequests, Field: FieldForm, Code: CodeTooManyRequests}
	}
	return Failure{Status: failureStatus(err), Field: FieldForm, Code: CodeServerError}
}

// SignupFailure maps a register error onto a field error.
func SignupFailure(err error) Failure {
	if fault.StatusOf(err) == http.StatusConflict {
		return Failure{Status: http.StatusConflict, Field: FieldEmail, Code: CodeEmailTaken}
	}
	return Failure{Status: failureStatus(err), Field: FieldForm, Code: CodeServerError}
}

func failureStatus(err error) int {
	if status := fault.StatusOf(err); status != 0 {
		return status
	}
	if fault.KindOf(err) == fault.Transport {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func ProfilePath(locale i18n.Locale) string {
	return "/" + string(locale) + "/profile"
}

func LoginPath(locale i18n.Locale) string {
	return "/" + string(locale) + "/login"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
