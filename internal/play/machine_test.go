package play

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizownik/internal/backend"
)

func sampleQuiz() backend.Quiz {
	return backend.Quiz{
		ID:   1,
		Name: "Arithmetic",
		Questions: []backend.Question{
			{ID: 1, Text: "2+2", Answers: []backend.Answer{{ID: 10, Text: "4", Correct: true}, {ID: 11, Text: "5"}}},
			{ID: 2, Text: "3+3", Answers: []backend.Answer{{ID: 20, Text: "6", Correct: true}, {ID: 21, Text: "7"}}},
			{ID: 3, Text: "4+4", Answers: []backend.Answer{{ID: 30, Text: "8", Correct: true}, {ID: 31, Text: "9"}}},
		},
	}
}

func started(t *testing.T, now time.Time) *Machine {
	t.Helper()
	m := NewMachine()
	if err := m.Start(sampleQuiz(), 7, now); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return m
}

func TestStartRequiresQuestions(t *testing.T) {
	m := NewMachine()
	if err := m.Start(backend.Quiz{ID: 1}, 7, time.Now()); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if m.Phase() != NotStarted {
		t.Fatalf("phase = %s", m.Phase())
	}
}

func TestAdvanceWithoutSelectionIsNoOp(t *testing.T) {
	m := started(t, time.Now())

	if m.Advance() {
		t.Fatalf("advance without a selection must not move")
	}
	if m.Index() != 0 {
		t.Fatalf("index = %d, want 0", m.Index())
	}

	if err := m.Select(1, 11); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !m.Advance() || m.Index() != 1 {
		t.Fatalf("expected to move to index 1, got %d", m.Index())
	}
}

func TestAdvanceStopsAtLastQuestion(t *testing.T) {
	m := started(t, time.Now())
	for _, pick := range [][2]int64{{1, 10}, {2, 20}, {3, 30}} {
		if err := m.Select(pick[0], pick[1]); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		m.Advance()
	}
	if m.Index() != 2 {
		t.Fatalf("index = %d, want 2", m.Index())
	}
	if m.Advance() {
		t.Fatalf("advance past the last question must be a no-op")
	}
}

func TestSelectIsLastWriteWinsAndRejectsUnknownIDs(t *testing.T) {
	m := started(t, time.Now())

	_ = m.Select(1, 10)
	_ = m.Select(1, 11)
	if got, _ := m.Selected(1); got != 11 {
		t.Fatalf("selection = %d, want 11", got)
	}

	if err := m.Select(9, 10); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("err = %v, want ErrUnknownQuestion", err)
	}
	if err := m.Select(1, 20); !errors.Is(err, ErrUnknownAnswer) {
		t.Fatalf("err = %v, want ErrUnknownAnswer", err)
	}
}

func TestSubmitDisabledUntilLastQuestionAnswered(t *testing.T) {
	m := started(t, time.Now())
	_ = m.Select(1, 10)
	_ = m.Select(2, 20)

	if m.CanSubmit() {
		t.Fatalf("CanSubmit must be false while the last question is unanswered")
	}
	if _, err := m.Submit(time.Now()); !errors.Is(err, ErrCannotSubmit) {
		t.Fatalf("err = %v, want ErrCannotSubmit", err)
	}
	if m.Phase() != InProgress {
		t.Fatalf("phase = %s", m.Phase())
	}
}

func TestSubmitScoresAndBuildsResult(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := started(t, start)

	// question 2 left unanswered, question 3 wrong
	_ = m.Select(1, 10)
	_ = m.Select(3, 31)

	result, err := m.Submit(start.Add(42*time.Second + 900*time.Millisecond))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if m.Phase() != Submitted || m.Score() != 1 {
		t.Fatalf("phase %s score %d", m.Phase(), m.Score())
	}
	if result.QuizID != 1 || result.UserID != 7 || result.Duration != 42 {
		t.Fatalf("result = %+v", result)
	}
	if result.FinishedAt != "2024-01-01T00:00:42Z" {
		t.Fatalf("finishedAt = %s", result.FinishedAt)
	}
	if len(result.ChosenAnswers) != 3 || result.ChosenAnswers[0] != 10 || result.ChosenAnswers[1] != 0 || result.ChosenAnswers[2] != 31 {
		t.Fatalf("chosen = %v", result.ChosenAnswers)
	}
	if len(result.QuestionOrder) != 3 || result.QuestionOrder[2] != 3 {
		t.Fatalf("order = %v", result.QuestionOrder)
	}
	if *result.CorrectAnswers != 1 || *result.FailAnswers != 2 {
		t.Fatalf("counts = %d/%d", *result.CorrectAnswers, *result.FailAnswers)
	}

	if err := m.Select(1, 11); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("select after submit: err = %v", err)
	}
}

func TestScoreCountsMatchingSelections(t *testing.T) {
	m := started(t, time.Now())
	_ = m.Select(1, 10)
	_ = m.Select(2, 20)
	_ = m.Select(3, 30)

	if _, err := m.Submit(time.Now()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if m.Score() != 3 {
		t.Fatalf("score = %d, want 3", m.Score())
	}
}

func TestResetAfterSubmit(t *testing.T) {
	m := started(t, time.Now())
	_ = m.Select(3, 30)
	if _, err := m.Submit(time.Now()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	m.Reset()
	if m.Phase() != NotStarted || m.Score() != 0 || m.Index() != 0 || m.Duration() != 0 {
		t.Fatalf("reset left state: phase %s score %d index %d", m.Phase(), m.Score(), m.Index())
	}
	if _, ok := m.Selected(3); ok {
		t.Fatalf("selections must be cleared")
	}
	if err := m.Start(sampleQuiz(), 7, time.Now()); err != nil {
		t.Fatalf("retake failed: %v", err)
	}
}

type reporterFunc func(ctx context.Context, result backend.QuizResult) error

func (f reporterFunc) SubmitResult(ctx context.Context, result backend.QuizResult) error {
	return f(ctx, result)
}

func TestReportRunsInBackgroundAndSwallowsErrors(t *testing.T) {
	var (
		mu       sync.Mutex
		received []int64
	)
	release := make(chan struct{})
	reporter := reporterFunc(func(ctx context.Context, result backend.QuizResult) error {
		<-release
		mu.Lock()
		received = append(received, result.QuizID)
		mu.Unlock()
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("report context must carry a deadline")
		}
		return errors.New("backend down")
	})

	done := Report(context.Background(), reporter, backend.QuizResult{QuizID: 5}, time.Second)
	select {
	case <-done:
		t.Fatalf("Report must not wait for delivery")
	default:
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("report did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0] != 5 {
		t.Fatalf("received = %v", received)
	}
}

func TestReportOutlivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawErr error
	done := Report(ctx, reporterFunc(func(ctx context.Context, _ backend.QuizResult) error {
		sawErr = ctx.Err()
		return nil
	}), backend.QuizResult{QuizID: 1}, time.Second)
	<-done

	if sawErr != nil {
		t.Fatalf("report context was cancelled: %v", sawErr)
	}
}
