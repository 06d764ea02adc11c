package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"quizownik/internal/backend"
	"quizownik/internal/play"
)

var now = time.Now

func (a *app) runPlay(ctx context.Context, quizID int64) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	quiz, err := a.client.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}

	a.machine.Reset()
	if err := a.machine.Start(quiz, user.ID, now()); err != nil {
		return err
	}
	return a.playAttempt(ctx)
}

// playAttempt walks the started machine to submission and reports the result
// in the background.
func (a *app) playAttempt(ctx context.Context) error {
	quiz := a.machine.Quiz()
	fmt.Fprintf(a.out, "%s (%d questions)\n", quiz.Name, a.machine.Total())

	for {
		question, _ := a.machine.Current()
		printQuestion(a.out, a.machine.Index()+1, a.machine.Total(), question)

		answer, ok := a.askAnswer(question)
		if !ok {
			fmt.Fprintln(a.out, "Quiz abandoned.")
			a.machine.Reset()
			return nil
		}
		if err := a.machine.Select(question.ID, answer.ID); err != nil {
			return err
		}

		if a.machine.Advance() {
			continue
		}
		if a.machine.CanSubmit() {
			break
		}
	}

	result, err := a.machine.Submit(now())
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Score: %d/%d\n", a.machine.Score(), a.machine.Total())
	fmt.Fprintf(a.out, "Time: %ds\n", result.Duration)

	play.Report(ctx, a.client, result, a.reportTimeout)
	return nil
}

func (a *app) askAnswer(question backend.Question) (backend.Answer, bool) {
	for attempt := 1; attempt <= a.maxInvalidAnswers; attempt++ {
		index, ok := promptAnswer(a.reader, a.out, len(question.Answers))
		if ok {
			return question.Answers[index], true
		}
		if remaining := a.maxInvalidAnswers - attempt; remaining > 0 {
			fmt.Fprintf(a.out, "Invalid input. Attempts remaining: %d\n", remaining)
		}
	}
	return backend.Answer{}, false
}

func printQuestion(out io.Writer, number, total int, question backend.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%d/%d] %s\n\n", number, total, question.Text)
	for idx, answer := range question.Answers {
		fmt.Fprintf(out, "%c. %s\n", 'A'+idx, answer.Text)
	}
	fmt.Fprintln(out)
}
