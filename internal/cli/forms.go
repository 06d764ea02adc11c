package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"quizownik/internal/backend"
)

const maxAnswers = 26

func (a *app) readQuizForm() (backend.Quiz, error) {
	var quiz backend.Quiz
	var err error

	if quiz.Name, err = promptLine(a.reader, a.out, "Name: "); err != nil {
		return quiz, err
	}
	if quiz.Category, err = promptLine(a.reader, a.out, "Category: "); err != nil {
		return quiz, err
	}

	for {
		line, err := promptLine(a.reader, a.out, "Level (EASY, MEDIUM, HARD, DEFAULT, MIXED; blank for none): ")
		if err != nil {
			return quiz, err
		}
		if line == "" {
			break
		}
		if level, ok := backend.ParseLevel(line); ok {
			quiz.Level = level
			break
		}
		fmt.Fprintf(a.out, "invalid level %q\n", line)
	}

	for {
		line, err := promptLine(a.reader, a.out, "Question ids (comma separated): ")
		if err != nil {
			return quiz, err
		}
		ids, err := parseIDList(line)
		if err == nil {
			quiz.QuestionIDs = ids
			return quiz, nil
		}
		fmt.Fprintf(a.out, "invalid question ids: %v\n", err)
	}
}

func (a *app) readQuestionForm() (backend.Question, error) {
	var question backend.Question
	var err error

	if question.Text, err = promptLine(a.reader, a.out, "Question: "); err != nil {
		return question, err
	}
	if question.Category, err = promptLine(a.reader, a.out, "Category: "); err != nil {
		return question, err
	}

	for len(question.Answers) < maxAnswers {
		letter := byte('A' + len(question.Answers))
		line, err := promptLine(a.reader, a.out, fmt.Sprintf("Answer %c (blank to finish): ", letter))
		if err != nil {
			return question, err
		}
		if line == "" {
			break
		}
		question.Answers = append(question.Answers, backend.Answer{Text: line})
	}
	if len(question.Answers) == 0 {
		return question, nil
	}

	for {
		line, err := promptLine(a.reader, a.out, "Correct answers (letters, e.g. A or A,C): ")
		if err != nil {
			return question, err
		}
		indexes, err := parseLetters(line, len(question.Answers))
		if err == nil {
			for _, idx := range indexes {
				question.Answers[idx].Correct = true
			}
			return question, nil
		}
		fmt.Fprintf(a.out, "invalid answers: %v\n", err)
	}
}

func parseIDList(value string) ([]int64, error) {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) == 0 {
		return nil, errors.New("at least one id is required")
	}

	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := parseID(part)
		if err != nil {
			return nil, errors.Wrapf(err, "%q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseLetters turns "A,C" into zero-based indexes below optionCount.
func parseLetters(value string, optionCount int) ([]int, error) {
	parts := strings.FieldsFunc(strings.ToUpper(value), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) == 0 {
		return nil, errors.New("at least one letter is required")
	}

	maxLetter := byte('A' + optionCount - 1)
	indexes := make([]int, 0, len(parts))
	for _, part := range parts {
		if len(part) != 1 || part[0] < 'A' || part[0] > maxLetter {
			return nil, errors.Errorf("%q is not between A and %c", part, maxLetter)
		}
		indexes = append(indexes, int(part[0]-'A'))
	}
	return indexes, nil
}
