package controllers

import (
	"coursetrack/middleware"
	courseModels "coursetrack/models/course"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// publicQuestion is a question with its answer key stripped
type publicQuestion struct {
	ID      string                    `json:"id"`
	Type    courseModels.QuestionType `json:"type"`
	Prompt  string                    `json:"prompt"`
	Options []string                  `json:"options"`
}

func stripAnswers(questions []courseModels.Question) []publicQuestion {
	out := make([]publicQuestion, len(questions))
	for i, q := range questions {
		out[i] = publicQuestion{ID: q.ID, Type: q.Type, Prompt: q.Prompt, Options: q.Options}
	}
	return out
}

// StartQuizAttempt opens a new attempt and returns the questions without answers
func StartQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)
	ctx := c.UserContext()

	attempt, err := deps.Quizzes.StartAttempt(ctx, userID, courseID, quizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	quiz, err := deps.Catalog.Quiz(ctx, quizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz attempt started!", fiber.Map{
		"attempt":       attempt,
		"questions":     stripAnswers(quiz.Questions),
		"passing_score": quiz.PassingScore,
		"max_attempts":  quiz.MaxAttempts,
	})
}

// SubmitQuizAttempt grades and freezes an open attempt
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	attemptID := c.Locals("attemptID").(uint)
	reqData := c.Locals("validatedSubmitQuiz").(*validators.SubmitQuizRequest)

	submission, err := deps.Quizzes.SubmitAttempt(c.UserContext(), userID, attemptID, reqData.ToModel())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"attempt":        submission.Attempt,
		"score":          submission.Result.Score,
		"passed":         submission.Result.Passed,
		"correct_count":  submission.Result.CorrectCount,
		"question_count": submission.Result.QuestionCount,
		"summary":        submission.Summary,
	})
}

// GetQuizResults returns the attempt history and best-of summary for a quiz
func GetQuizResults(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	attempts, summary, err := deps.Quizzes.History(c.UserContext(), userID, courseID, quizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz results fetched successfully!", fiber.Map{
		"attempts": attempts,
		"summary":  summary,
	})
}
