package courseValidator

import (
	courseModels "coursetrack/models/course"

	"github.com/gofiber/fiber/v2"
)

type SubmitQuizRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"dive"`
}

type SubmittedAnswer struct {
	QuestionID string   `json:"question_id" validate:"required"`
	Value      string   `json:"value"`
	Values     []string `json:"values"`
}

// ToModel converts the request into grader input.
func (r *SubmitQuizRequest) ToModel() []courseModels.SubmittedAnswer {
	out := make([]courseModels.SubmittedAnswer, len(r.Answers))
	for i, a := range r.Answers {
		out[i] = courseModels.SubmittedAnswer{QuestionID: a.QuestionID, Value: a.Value, Values: a.Values}
	}
	return out
}

func StartQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID", "quiz_id": "quizID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"attempt_id": "attemptID"}); err != nil {
			return err
		}
		reqData := new(SubmitQuizRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedSubmitQuiz", reqData)
		return c.Next()
	}
}

func QuizResults() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID", "quiz_id": "quizID"}); err != nil {
			return err
		}
		return c.Next()
	}
}
