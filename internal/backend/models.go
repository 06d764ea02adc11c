package backend

import "strings"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Level string

const (
	LevelEasy    Level = "EASY"
	LevelMedium  Level = "MEDIUM"
	LevelHard    Level = "HARD"
	LevelDefault Level = "DEFAULT"
	LevelMixed   Level = "MIXED"
)

var levels = []Level{LevelEasy, LevelMedium, LevelHard, LevelDefault, LevelMixed}

// ParseLevel accepts any letter case.
func ParseLevel(value string) (Level, bool) {
	candidate := Level(strings.ToUpper(strings.TrimSpace(value)))
	for _, level := range levels {
		if level == candidate {
			return level, true
		}
	}
	return "", false
}

type User struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	CreatedAt       string `json:"createdAt,omitempty"`
	SolvedQuizzes   int    `json:"solvedQuizzes"`
	MasteredQuizzes int    `json:"masteredQuizzes"`
	Level           Level  `json:"level,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Answer struct {
	ID      int64  `json:"id,omitempty"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type Question struct {
	ID       int64    `json:"id,omitempty"`
	Text     string   `json:"question"`
	Category string   `json:"category"`
	Answers  []Answer `json:"answers"`
}

type Quiz struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Level         Level      `json:"level,omitempty"`
	QuestionIDs   []int64    `json:"questionIds"`
	Questions     []Question `json:"questions,omitempty"`
	Mastered      bool       `json:"mastered"`
	QuestionCount int        `json:"questionCount"`
}

type QuizPage struct {
	Content       []Quiz `json:"content"`
	Number        int    `json:"number"`
	Size          int    `json:"size"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int64  `json:"totalElements"`
}

type QuizInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Level       Level   `json:"level,omitempty"`
	QuestionIDs []int64 `json:"questionIds"`
}

type GenerateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    Level  `json:"level"`
	Count    int    `json:"count"`
}

type QuizFilter struct {
	Page     int
	Size     int
	Sort     string
	Category *int64
	Level    Level
}

// QuizResult is built once per attempt. ChosenAnswers uses 0 for an
// unanswered question.
type QuizResult struct {
	QuizID         int64   `json:"quizId"`
	UserID         int64   `json:"userId"`
	FinishedAt     string  `json:"finishedAt"`
	Duration       int64   `json:"duration"`
	QuestionOrder  []int64 `json:"questionOrder"`
	ChosenAnswers  []int64 `json:"chosenAnswers"`
	CorrectAnswers *int    `json:"correctAnswers,omitempty"`
	FailAnswers    *int    `json:"failAnswers,omitempty"`
}

type ResultSummary struct {
	ID             int64  `json:"id"`
	QuizID         int64  `json:"quizId"`
	QuizName       string `json:"quizName"`
	FinishedAt     string `json:"finishedAt"`
	Duration       int64  `json:"duration"`
	CorrectAnswers int    `json:"correctAnswers"`
	FailAnswers    int    `json:"failAnswers"`
}

type CategoryPlot struct {
	Category string `json:"category"`
	Correct  int    `json:"correct"`
	Fail     int    `json:"fail"`
}

type LeaderboardEntry struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Level    Level  `json:"level,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
