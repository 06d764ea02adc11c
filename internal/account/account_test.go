package account

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"quizownik/internal/fault"
	"quizownik/internal/form"
	"quizownik/internal/i18n"
)

func TestLoginFailureMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   Code
	}{
		{fault.NewUpstream(http.StatusUnauthorized, nil), http.StatusUnauthorized, CodeInvalidCredentials},
		{fault.NewUpstream(http.StatusForbidden, nil), http.StatusForbidden, CodeAccountBlocked},
		{fault.NewUpstream(http.StatusTooManyRequests, nil), http.StatusTooManyRequests, CodeTooManyRequests},
		{fault.NewUpstream(http.StatusInternalServerError, []byte("oops")), http.StatusInternalServerError, CodeServerError},
		{fault.NewUpstream(http.StatusBadRequest, nil), http.StatusBadRequest, CodeServerError},
		{fault.NewTransport(errors.New("dial")), http.StatusServiceUnavailable, CodeServerError},
		{errors.New("decode"), http.StatusInternalServerError, CodeServerError},
	}

	for _, tc := range cases {
		got := LoginFailure(tc.err)
		if got.Status != tc.status || got.Code != tc.code || got.Field != FieldForm {
			t.Fatalf("LoginFailure(%v) = %+v, want status %d code %s", tc.err, got, tc.status, tc.code)
		}
	}
}

func TestSignupFailureMapping(t *testing.T) {
	got := SignupFailure(errors.Wrap(fault.NewUpstream(http.StatusConflict, nil), "register"))
	if got.Status != http.StatusConflict || got.Field != FieldEmail || got.Code != CodeEmailTaken {
		t.Fatalf("conflict mapping = %+v", got)
	}

	got = SignupFailure(fault.NewUpstream(http.StatusBadGateway, nil))
	if got.Status != http.StatusBadGateway || got.Field != FieldForm || got.Code != CodeServerError {
		t.Fatalf("generic mapping = %+v", got)
	}
}

func TestCodeMessageKeys(t *testing.T) {
	if CodeAccountBlocked.MessageKey() != i18n.AccountBlocked {
		t.Fatalf("unexpected key for account_blocked")
	}
	if Code("whatever").MessageKey() != i18n.ServerError {
		t.Fatalf("unknown codes should map to server_error")
	}
}

func TestSignupValidation(t *testing.T) {
	valid := SignupRequest{
		FirstName:       "Ala",
		LastName:        "Kowalska",
		Username:        "ala99",
		Email:           "Ala@Example.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	}
	if fields := form.Validate(valid); fields != nil {
		t.Fatalf("unexpected violations: %v", fields)
	}
	if got := valid.Registration().Email; got != "ala@example.com" {
		t.Fatalf("normalized email = %q", got)
	}

	invalid := valid
	invalid.Username = "a!"
	invalid.ConfirmPassword = "Secret2!"
	fields := form.Validate(invalid)
	if fields["username"] == "" || fields["confirmPassword"] != "password_mismatch" {
		t.Fatalf("unexpected violations: %v", fields)
	}
}

func TestPasswordChangeValidation(t *testing.T) {
	same := PasswordChangeRequest{CurrentPassword: "Secret1!", NewPassword: "Secret1!", ConfirmPassword: "Secret1!"}
	if form.Validate(same)["newPassword"] != "password_unchanged" {
		t.Fatalf("expected new==current to be rejected, got %v", form.Validate(same))
	}

	weak := PasswordChangeRequest{CurrentPassword: "Secret1!", NewPassword: "abcdefgh", ConfirmPassword: "abcdefgh"}
	if form.Validate(weak)["newPassword"] != "password_weak" {
		t.Fatalf("expected weak password to be rejected, got %v", form.Validate(weak))
	}

	mismatch := PasswordChangeRequest{CurrentPassword: "Secret1!", NewPassword: "Better2@", ConfirmPassword: "Better3@"}
	if form.Validate(mismatch)["confirmPassword"] != "password_mismatch" {
		t.Fatalf("expected mismatch to be rejected, got %v", form.Validate(mismatch))
	}

	ok := PasswordChangeRequest{CurrentPassword: "Secret1!", NewPassword: "Better2@", ConfirmPassword: "Better2@"}
	if fields := form.Validate(ok); fields != nil {
		t.Fatalf("unexpected violations: %v", fields)
	}
}
