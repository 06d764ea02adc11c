package i18n

import "testing"

func TestMessageUsesRequestedLocale(t *testing.T) {
	if got := Message(English, Unauthorized); got != "You must be logged in to do that." {
		t.Fatalf("english unauthorized = %q", got)
	}
	if got := Message(Polish, InvalidCredentials); got != "Nieprawidłowy e-mail lub hasło." {
		t.Fatalf("polish invalid credentials = %q", got)
	}
}

func TestMessageFallsBackToDefaultLocaleAndKey(t *testing.T) {
	if got, want := Message(Locale("de"), Deleted), Message(DefaultLocale, Deleted); got != want {
		t.Fatalf("unknown locale message = %q, want %q", got, want)
	}
	if got := Message(English, Key("no_such_key")); got != "no_such_key" {
		t.Fatalf("unknown key message = %q", got)
	}
}

func TestEveryLocaleCoversDefaultKeys(t *testing.T) {
	for key := range catalog[DefaultLocale] {
		for _, locale := range Supported() {
			if _, ok := catalog[locale][key]; !ok {
				t.Fatalf("locale %s is missing key %s", locale, key)
			}
		}
	}
}

func TestParse(t *testing.T) {
	if locale, ok := Parse(" EN "); !ok || locale != English {
		t.Fatalf("Parse(EN) = (%q, %t)", locale, ok)
	}
	if _, ok := Parse("fr"); ok {
		t.Fatalf("expected fr to be unsupported")
	}
}
