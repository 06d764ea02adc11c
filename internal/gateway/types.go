package gateway

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"quizownik/internal/backend"
	"quizownik/internal/form"
)

func init() {
	form.RegisterStruct(questionRules, questionRequest{})
	form.RegisterStruct(resultRules, resultRequest{})
}

type quizRequest struct {
	Name        string  `json:"name" validate:"notblank,max=200"`
	Category    string  `json:"category" validate:"notblank,max=100"`
	Level       string  `json:"level,omitempty" validate:"omitempty,oneof=EASY MEDIUM HARD DEFAULT MIXED"`
	QuestionIDs []int64 `json:"questionIds" validate:"required,dive,gt=0"`
}

func (q quizRequest) input() backend.QuizInput {
	return backend.QuizInput{
		Name:        strings.TrimSpace(q.Name),
		Category:    strings.TrimSpace(q.Category),
		Level:       backend.Level(q.Level),
		QuestionIDs: q.QuestionIDs,
	}
}

type generateRequest struct {
	Name     string `json:"name" validate:"notblank,max=200"`
	Category string `json:"category" validate:"notblank,max=100"`
	Level    string `json:"level" validate:"required,oneof=EASY MEDIUM HARD DEFAULT MIXED"`
	Count    int    `json:"count" validate:"gte=1,lte=50"`
}

func (g generateRequest) request() backend.GenerateRequest {
	return backend.GenerateRequest{
		Name:     strings.TrimSpace(g.Name),
		Category: strings.TrimSpace(g.Category),
		Level:    backend.Level(g.Level),
		Count:    g.Count,
	}
}

type answerRequest struct {
	ID      int64  `json:"id,omitempty"`
	Text    string `json:"text" validate:"notblank,max=500"`
	Correct bool   `json:"correct"`
}

type questionRequest struct {
	Text     string          `json:"question" validate:"notblank,max=1000"`
	Category string          `json:"category" validate:"notblank,max=100"`
	Answers  []answerRequest `json:"answers" validate:"required,min=1,dive"`
}

func (q questionRequest) question() backend.Question {
	answers := make([]backend.Answer, 0, len(q.Answers))
	for _, answer := range q.Answers {
		answers = append(answers, backend.Answer{
			ID:      answer.ID,
			Text:    strings.TrimSpace(answer.Text),
			Correct: answer.Correct,
		})
	}
	return backend.Question{
		Text:     strings.TrimSpace(q.Text),
		Category: strings.TrimSpace(q.Category),
		Answers:  answers,
	}
}

func questionRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(questionRequest)
	for _, answer := range q.Answers {
		if answer.Correct {
			return
		}
	}
	sl.ReportError(q.Answers, "answers", "Answers", "one_correct", "")
}

type resultRequest struct {
	QuizID         *int64  `json:"quizId" validate:"required,gt=0"`
	UserID         *int64  `json:"userId" validate:"required,gt=0"`
	FinishedAt     string  `json:"finishedAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Duration       *int64  `json:"duration" validate:"required,gte=0"`
	QuestionOrder  []int64 `json:"questionOrder" validate:"required"`
	ChosenAnswers  []int64 `json:"chosenAnswers" validate:"required,dive,gte=0"`
	CorrectAnswers *int    `json:"correctAnswers,omitempty" validate:"omitempty,gte=0"`
	FailAnswers    *int    `json:"failAnswers,omitempty" validate:"omitempty,gte=0"`
}

func (r resultRequest) result() backend.QuizResult {
	return backend.QuizResult{
		QuizID:         *r.QuizID,
		UserID:         *r.UserID,
		FinishedAt:     r.FinishedAt,
		Duration:       *r.Duration,
		QuestionOrder:  r.QuestionOrder,
		ChosenAnswers:  r.ChosenAnswers,
		CorrectAnswers: r.CorrectAnswers,
		FailAnswers:    r.FailAnswers,
	}
}

func resultRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(resultRequest)
	if r.QuestionOrder != nil && r.ChosenAnswers != nil && len(r.QuestionOrder) != len(r.ChosenAnswers) {
		sl.ReportError(r.ChosenAnswers, "chosenAnswers", "ChosenAnswers", "length_mismatch", "")
	}
}

type errorResponse struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details any               `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type healthResponse struct {
	Status string `json:"status"`
}
