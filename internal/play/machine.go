// Package play tracks a single quiz attempt: which question is shown, what
// was selected, and the result once the attempt is submitted.
package play

import (
	"time"

	"github.com/pkg/errors"

	"quizownik/internal/backend"
)

type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Submitted
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrWrongPhase      = errors.New("play: operation not allowed in this phase")
	ErrNoQuestions     = errors.New("play: quiz has no questions")
	ErrUnknownQuestion = errors.New("play: question is not part of the quiz")
	ErrUnknownAnswer   = errors.New("play: answer does not belong to the question")
	ErrCannotSubmit    = errors.New("play: final question has no selection")
)

// Machine is not safe for concurrent use.
type Machine struct {
	phase      Phase
	quiz       backend.Quiz
	userID     int64
	index      int
	selections map[int64]int64
	score      int
	startedAt  time.Time
	finishedAt time.Time
}

func NewMachine() *Machine {
	return &Machine{selections: map[int64]int64{}}
}

// Start begins an attempt on a fetched quiz.
func (m *Machine) Start(quiz backend.Quiz, userID int64, now time.Time) error {
	if m.phase != NotStarted {
		return errors.Wrapf(ErrWrongPhase, "start in phase %s", m.phase)
	}
	if len(quiz.Questions) == 0 {
		return ErrNoQuestions
	}

	m.quiz = quiz
	m.userID = userID
	m.index = 0
	m.selections = map[int64]int64{}
	m.score = 0
	m.startedAt = now
	m.finishedAt = time.Time{}
	m.phase = InProgress
	return nil
}

func (m *Machine) Phase() Phase {
	return m.phase
}

func (m *Machine) Quiz() backend.Quiz {
	return m.quiz
}

func (m *Machine) Index() int {
	return m.index
}

func (m *Machine) Total() int {
	return len(m.quiz.Questions)
}

func (m *Machine) Score() int {
	return m.score
}

// Current returns the question at the current index.
func (m *Machine) Current() (backend.Question, bool) {
	if m.phase == NotStarted || m.index >= len(m.quiz.Questions) {
		return backend.Question{}, false
	}
	return m.quiz.Questions[m.index], true
}

// Select records answerID for questionID, replacing any earlier choice.
func (m *Machine) Select(questionID, answerID int64) error {
	if m.phase != InProgress {
		return errors.Wrapf(ErrWrongPhase, "select in phase %s", m.phase)
	}

	question, ok := m.question(questionID)
	if !ok {
		return errors.Wrapf(ErrUnknownQuestion, "question %d", questionID)
	}
	for _, answer := range question.Answers {
		if answer.ID == answerID {
			m.selections[questionID] = answerID
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownAnswer, "answer %d for question %d", answerID, questionID)
}

func (m *Machine) Selected(questionID int64) (int64, bool) {
	answerID, ok := m.selections[questionID]
	return answerID, ok
}

// Advance moves to the next question when the current one is answered. It
// reports whether the index moved.
func (m *Machine) Advance() bool {
	current, ok := m.Current()
	if m.phase != InProgress || !ok {
		return false
	}
	if _, answered := m.selections[current.ID]; !answered {
		return false
	}
	if m.index >= len(m.quiz.Questions)-1 {
		return false
	}
	m.index++
	return true
}

func (m *Machine) CanSubmit() bool {
	if m.phase != InProgress {
		return false
	}
	last := m.quiz.Questions[len(m.quiz.Questions)-1]
	_, answered := m.selections[last.ID]
	return answered
}

// Submit scores the attempt and returns the result payload to report.
func (m *Machine) Submit(now time.Time) (backend.QuizResult, error) {
	if !m.CanSubmit() {
		if m.phase != InProgress {
			return backend.QuizResult{}, errors.Wrapf(ErrWrongPhase, "submit in phase %s", m.phase)
		}
		return backend.QuizResult{}, ErrCannotSubmit
	}

	order := make([]int64, 0, len(m.quiz.Questions))
	chosen := make([]int64, 0, len(m.quiz.Questions))
	score := 0
	for _, question := range m.quiz.Questions {
		order = append(order, question.ID)
		answerID := m.selections[question.ID]
		chosen = append(chosen, answerID)
		if isCorrect(question, answerID) {
			score++
		}
	}

	m.score = score
	m.finishedAt = now
	m.phase = Submitted

	fail := len(order) - score
	return backend.QuizResult{
		QuizID:         m.quiz.ID,
		UserID:         m.userID,
		FinishedAt:     now.UTC().Format(time.RFC3339),
		Duration:       int64(m.Duration() / time.Second),
		QuestionOrder:  order,
		ChosenAnswers:  chosen,
		CorrectAnswers: &score,
		FailAnswers:    &fail,
	}, nil
}

// Duration is the elapsed time of a submitted attempt, zero otherwise.
func (m *Machine) Duration() time.Duration {
	if m.phase != Submitted || m.finishedAt.Before(m.startedAt) {
		return 0
	}
	return m.finishedAt.Sub(m.startedAt)
}

// Reset allows a retake of the same or another quiz.
func (m *Machine) Reset() {
	*m = Machine{selections: map[int64]int64{}}
}

func (m *Machine) question(id int64) (backend.Question, bool) {
	for _, question := range m.quiz.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return backend.Question{}, false
}

func isCorrect(question backend.Question, answerID int64) bool {
	if answerID == 0 {
		return false
	}
	for _, answer := range question.Answers {
		if answer.ID == answerID {
			return answer.Correct
		}
	}
	return false
}
