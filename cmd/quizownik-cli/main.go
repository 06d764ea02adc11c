package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"quizownik/internal/cli"
	"quizownik/internal/i18n"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:3000", "quizownik web base URL")
	locale := flag.String("locale", string(i18n.DefaultLocale), "message locale (pl or en)")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP timeout")
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)

	err := cli.Run(context.Background(), os.Stdin, os.Stdout, cli.Config{
		ServerURL:   *server,
		Locale:      i18n.Locale(*locale),
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
