package i18n

import "strings"

type Locale string

const (
	Polish  Locale = "pl"
	English Locale = "en"

	DefaultLocale = Polish
)

type Key string

const (
	Unauthorized       Key = "unauthorized"
	SessionExpired     Key = "session_expired"
	Forbidden          Key = "forbidden"
	InvalidData        Key = "invalid_data"
	NotFound           Key = "not_found"
	QuizNotFound       Key = "quiz_not_found"
	Conflict           Key = "conflict"
	TooManyRequests    Key = "too_many_requests"
	BackendError       Key = "backend_error"
	BackendUnavailable Key = "backend_unavailable"
	InternalError      Key = "internal_error"
	Success            Key = "success"
	Deleted            Key = "deleted"

	EmailTaken         Key = "email_taken"
	InvalidCredentials Key = "invalid_credentials"
	AccountBlocked     Key = "account_blocked"
	ServerError        Key = "server_error"
	PasswordChanged    Key = "password_changed"
)

var catalog = map[Locale]map[Key]string{
	Polish: {
		Unauthorized:       "Musisz być zalogowany, aby wykonać tę operację.",
		SessionExpired:     "Twoja sesja wygasła. Zaloguj się ponownie.",
		Forbidden:          "Nie masz uprawnień do wykonania tej operacji.",
		InvalidData:        "Nieprawidłowe dane.",
		NotFound:           "Nie znaleziono zasobu.",
		QuizNotFound:       "Nie znaleziono quizu.",
		Conflict:           "Zasób już istnieje.",
		TooManyRequests:    "Zbyt wiele prób. Spróbuj ponownie później.",
		BackendError:       "Serwer zwrócił błąd.",
		BackendUnavailable: "Serwer jest niedostępny. Spróbuj ponownie później.",
		InternalError:      "Wystąpił nieoczekiwany błąd.",
		Success:            "Operacja zakończona sukcesem.",
		Deleted:            "Usunięto pomyślnie.",
		EmailTaken:         "Ten adres e-mail jest już zarejestrowany.",
		InvalidCredentials: "Nieprawidłowy e-mail lub hasło.",
		AccountBlocked:     "Konto zostało zablokowane.",
		ServerError:        "Błąd serwera. Spróbuj ponownie.",
		PasswordChanged:    "Hasło zostało zmienione.",
	},
	English: {
		Unauthorized:       "You must be logged in to do that.",
		SessionExpired:     "Your session has expired. Please log in again.",
		Forbidden:          "You are not allowed to do that.",
		InvalidData:        "Invalid data.",
		NotFound:           "Resource not found.",
		QuizNotFound:       "Quiz not found.",
		Conflict:           "Resource already exists.",
		TooManyRequests:    "Too many requests. Try again later.",
		BackendError:       "The server returned an error.",
		BackendUnavailable: "The server is unavailable. Try again later.",
		InternalError:      "An unexpected error occurred.",
		Success:            "Done.",
		Deleted:            "Deleted successfully.",
		EmailTaken:         "This email is already registered.",
		InvalidCredentials: "Invalid email or password.",
		AccountBlocked:     "This account has been blocked.",
		ServerError:        "Server error. Please try again.",
		PasswordChanged:    "Your password has been changed.",
	},
}

// Translator resolves a message key for a locale.
type Translator func(locale Locale, key Key) string

// Message looks key up in the static catalog. Unknown locales fall back to
// the default locale and unknown keys to the key itself.
func Message(locale Locale, key Key) string {
	if table, ok := catalog[locale]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if text, ok := catalog[DefaultLocale][key]; ok {
		return text
	}
	return string(key)
}

func Parse(value string) (Locale, bool) {
	locale := Locale(strings.ToLower(strings.TrimSpace(value)))
	_, ok := catalog[locale]
	return locale, ok
}

func Supported() []Locale {
	return []Locale{Polish, English}
}
