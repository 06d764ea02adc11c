package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"quizownik/internal/admin"
	"quizownik/internal/backend"
	"quizownik/internal/webclient"
)

type quizResource struct {
	client *webclient.HTTPClient
}

func (r *quizResource) List(ctx context.Context) ([]backend.Quiz, error) {
	page, err := r.client.ListQuizzes(ctx, 0, adminListSize)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (r *quizResource) Create(ctx context.Context, quiz backend.Quiz) error {
	return r.client.CreateQuiz(ctx, quizInput(quiz))
}

func (r *quizResource) Update(ctx context.Context, id int64, quiz backend.Quiz) error {
	return r.client.UpdateQuiz(ctx, id, quizInput(quiz))
}

func (r *quizResource) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteQuiz(ctx, id)
}

func quizInput(quiz backend.Quiz) backend.QuizInput {
	return backend.QuizInput{
		Name:        quiz.Name,
		Category:    quiz.Category,
		Level:       quiz.Level,
		QuestionIDs: quiz.QuestionIDs,
	}
}

// questionResource lists the questions of one category, or all of them.
type questionResource struct {
	client   *webclient.HTTPClient
	category string
}

func (r *questionResource) List(ctx context.Context) ([]backend.Question, error) {
	return r.client.ListQuestions(ctx, r.category)
}

func (r *questionResource) Create(ctx context.Context, question backend.Question) error {
	return r.client.CreateQuestion(ctx, question)
}

func (r *questionResource) Update(ctx context.Context, id int64, question backend.Question) error {
	return r.client.UpdateQuestion(ctx, id, question)
}

func (r *questionResource) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteQuestion(ctx, id)
}

func (a *app) runAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printAdminHelp(a.out)
		return nil
	}

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if err := admin.RequireAdmin(user); err != nil {
		return err
	}

	switch strings.ToLower(args[0]) {
	case "quizzes":
		if err := a.quizzes.Load(ctx); err != nil {
			return err
		}
		a.printQuizBoard()
	case "questions":
		a.category.category = strings.Join(args[1:], " ")
		if err := a.questions.Load(ctx); err != nil {
			return err
		}
		a.printQuestionBoard()
	case "create-quiz":
		quiz, err := a.readQuizForm()
		if err != nil {
			return err
		}
		if err := a.quizzes.Create(ctx, quiz); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Created quiz.")
		a.printQuizBoard()
	case "update-quiz":
		id, ok := a.adminID(args, "usage: admin update-quiz <id>")
		if !ok {
			return nil
		}
		quiz, err := a.readQuizForm()
		if err != nil {
			return err
		}
		if err := a.quizzes.Update(ctx, id, quiz); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated quiz %d.\n", id)
		a.printQuizBoard()
	case "create-question":
		question, err := a.readQuestionForm()
		if err != nil {
			return err
		}
		if err := a.questions.Create(ctx, question); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Created question.")
		a.printQuestionBoard()
	case "update-question":
		id, ok := a.adminID(args, "usage: admin update-question <id>")
		if !ok {
			return nil
		}
		question, err := a.readQuestionForm()
		if err != nil {
			return err
		}
		if err := a.questions.Update(ctx, id, question); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated question %d.\n", id)
		a.printQuestionBoard()
	case "delete-quiz":
		id, ok := a.adminID(args, "usage: admin delete-quiz <id>")
		if !ok {
			return nil
		}
		return a.confirmDelete(ctx, fmt.Sprintf("quiz %d", id), id, a.quizzes.RequestDelete, a.quizzes.CancelDelete, a.quizzes.ConfirmDelete)
	case "delete-question":
		id, ok := a.adminID(args, "usage: admin delete-question <id>")
		if !ok {
			return nil
		}
		return a.confirmDelete(ctx, fmt.Sprintf("question %d", id), id, a.questions.RequestDelete, a.questions.CancelDelete, a.questions.ConfirmDelete)
	case "generate":
		return a.runGenerate(ctx, args[1:])
	default:
		printAdminHelp(a.out)
	}
	return nil
}

func (a *app) adminID(args []string, usage string) (int64, bool) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	id, err := parseID(args[1])
	if err != nil {
		fmt.Fprintf(a.out, "invalid id: %v\n", err)
		return 0, false
	}
	return id, true
}

func (a *app) confirmDelete(ctx context.Context, label string, id int64, request func(int64), cancel func(), confirm func(context.Context) error) error {
	request(id)
	ok, err := promptYesNo(a.reader, a.out, fmt.Sprintf("delete %s? (yes/no): ", label))
	if err != nil || !ok {
		cancel()
		if err == nil {
			fmt.Fprintln(a.out, "Cancelled.")
		}
		return err
	}
	if err := confirm(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", label)
	return nil
}

func (a *app) runGenerate(ctx context.Context, args []string) error {
	if len(args) < 4 {
		fmt.Fprintln(a.out, "usage: admin generate <count> <level> <category> <name...>")
		return nil
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		fmt.Fprintln(a.out, "invalid count: must be a positive integer")
		return nil
	}
	level, ok := backend.ParseLevel(args[1])
	if !ok {
		fmt.Fprintf(a.out, "invalid level %q\n", args[1])
		return nil
	}

	done, err := a.generator.Start(ctx, backend.GenerateRequest{
		Name:     strings.Join(args[3:], " "),
		Category: args[2],
		Level:    level,
		Count:    count,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Generating...")
	<-done
	if err := a.generator.Err(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Quiz generated.")
	return nil
}

func (a *app) printQuizBoard() {
	items := a.quizzes.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No quizzes.")
		return
	}
	for _, quiz := range items {
		printQuizLine(a.out, quiz)
	}
}

func (a *app) printQuestionBoard() {
	items := a.questions.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No questions.")
		return
	}
	for _, question := range items {
		correct := 0
		for _, answer := range question.Answers {
			if answer.Correct {
				correct++
			}
		}
		fmt.Fprintf(a.out, "%d. %s [%s] %d answers, %d correct\n", question.ID, question.Text, question.Category, len(question.Answers), correct)
	}
}
