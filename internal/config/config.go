package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"quizownik/internal/i18n"
)

const devSessionSecret = "quizownik-development-secret"

type Config struct {
	Addr           string
	APIURL         string
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	DefaultLocale  i18n.Locale
	HTTPTimeout    time.Duration
	AdminGuard     bool
	LogLevel       string
	LogFormat      string
	devSecretInUse bool
}

// Load reads the optional env files and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "load %s", file)
		}
	}

	cfg := &Config{
		Addr:          getEnv("QUIZOWNIK_ADDR", ":3000"),
		APIURL:        strings.TrimRight(getEnv("QUIZOWNIK_API_URL", "http://localhost:8080/api"), "/"),
		SessionSecret: getEnv("QUIZOWNIK_SESSION_SECRET", ""),
		LogLevel:      getEnv("QUIZOWNIK_LOG_LEVEL", "info"),
		LogFormat:     getEnv("QUIZOWNIK_LOG_FORMAT", "text"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("QUIZOWNIK_SESSION_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getDuration("QUIZOWNIK_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBool("QUIZOWNIK_COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.AdminGuard, err = getBool("QUIZOWNIK_ADMIN_GUARD", true); err != nil {
		return nil, err
	}

	locale, ok := i18n.Parse(getEnv("QUIZOWNIK_DEFAULT_LOCALE", string(i18n.DefaultLocale)))
	if !ok {
		return nil, errors.Errorf("unsupported QUIZOWNIK_DEFAULT_LOCALE %q", locale)
	}
	cfg.DefaultLocale = locale

	if cfg.APIURL == "" {
		return nil, errors.New("QUIZOWNIK_API_URL is required")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = devSessionSecret
		cfg.devSecretInUse = true
	}

	return cfg, nil
}

// SetupLogger applies the configured level and format to the standard logrus logger.
func (c *Config) SetupLogger() {
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.devSecretInUse {
		logrus.Warn("QUIZOWNIK_SESSION_SECRET is not set, using the development secret")
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return 0, errors.Errorf("%s must be a positive duration", key)
	}
	return parsed, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.Errorf("%s must be a boolean", key)
	}
	return parsed, nil
}
