package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"quizownik/internal/backend"
)

// promptAnswer reads a letter and returns its zero-based index.
func promptAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (int, bool) {
	if optionCount < 1 || optionCount > 26 {
		return 0, false
	}

	maxLetter := byte('A' + optionCount - 1)
	fmt.Fprintf(out, "Your answer (A-%c): ", maxLetter)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return 0, false
	}

	answer := strings.ToUpper(strings.TrimSpace(line))
	if len(answer) != 1 {
		return 0, false
	}
	letter := answer[0]
	if letter < 'A' || letter > maxLetter {
		return 0, false
	}
	return int(letter - 'A'), true
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "t", "tak":
			return true, nil
		case "n", "no", "nie":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  login <email>")
	fmt.Fprintln(out, "  logout")
	fmt.Fprintln(out, "  profile")
	fmt.Fprintln(out, "  quizzes [page]")
	fmt.Fprintln(out, "  play <quiz_id>")
	fmt.Fprintln(out, "  leaderboard [limit]")
	fmt.Fprintln(out, "  results")
	fmt.Fprintln(out, "  admin <subcommand>")
	fmt.Fprintln(out, "  exit")
}

func printAdminHelp(out io.Writer) {
	fmt.Fprintln(out, "Admin commands:")
	fmt.Fprintln(out, "  admin quizzes")
	fmt.Fprintln(out, "  admin questions [category]")
	fmt.Fprintln(out, "  admin create-quiz")
	fmt.Fprintln(out, "  admin update-quiz <id>")
	fmt.Fprintln(out, "  admin create-question")
	fmt.Fprintln(out, "  admin update-question <id>")
	fmt.Fprintln(out, "  admin delete-quiz <id>")
	fmt.Fprintln(out, "  admin delete-question <id>")
	fmt.Fprintln(out, "  admin generate <count> <level> <category> <name...>")
}

func printQuizLine(out io.Writer, quiz backend.Quiz) {
	count := quiz.QuestionCount
	if count == 0 {
		count = len(quiz.QuestionIDs)
	}
	fmt.Fprintf(out, "%d. %s [%s", quiz.ID, quiz.Name, quiz.Category)
	if quiz.Level != "" {
		fmt.Fprintf(out, ", %s", quiz.Level)
	}
	fmt.Fprintf(out, "] %d questions", count)
	if quiz.Mastered {
		fmt.Fprint(out, " (mastered)")
	}
	fmt.Fprintln(out)
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func parseNonNegative(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return value, nil
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return id, nil
}

func displayName(user backend.User) string {
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		return name
	}
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+fields[key])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
