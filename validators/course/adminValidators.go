package courseValidator

import (
	"coursetrack/middleware"
	courseModels "coursetrack/models/course"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100,excludesall=<>{}"`
	Description string `json:"description" validate:"max=1000"`
	Author      string `json:"author" validate:"max=100"`
}

type SectionRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100,excludesall=<>{}"`
	Description string `json:"description" validate:"max=1000"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

type CreateLectureRequest struct {
	SectionID       uint   `json:"section_id" validate:"required"`
	Title           string `json:"title" validate:"required,min=3,max=100,excludesall=<>{}"`
	Description     string `json:"description" validate:"max=1000"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	DurationSeconds int64  `json:"duration_seconds" validate:"gte=0"`
	OrderIndex      int    `json:"order_index" validate:"gte=0"`
}

// UpdateLectureRequest uses pointers so only provided fields change.
type UpdateLectureRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=3,max=100,excludesall=<>{}"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	DurationSeconds *int64  `json:"duration_seconds" validate:"omitempty,gte=0"`
	OrderIndex      *int    `json:"order_index" validate:"omitempty,gte=0"`
}

func (r *UpdateLectureRequest) Updates() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.VideoURL != nil {
		updates["video_url"] = *r.VideoURL
	}
	if r.DurationSeconds != nil {
		updates["duration_seconds"] = *r.DurationSeconds
	}
	if r.OrderIndex != nil {
		updates["order_index"] = *r.OrderIndex
	}
	return updates
}

type QuestionRequest struct {
	Type           courseModels.QuestionType `json:"type" validate:"required,oneof=SINGLE_CHOICE TRUE_FALSE MULTIPLE_SELECT"`
	Prompt         string                    `json:"prompt" validate:"required,max=2000"`
	Options        []string                  `json:"options"`
	CorrectAnswer  string                    `json:"correct_answer" validate:"required_unless=Type MULTIPLE_SELECT"`
	CorrectAnswers []string                  `json:"correct_answers" validate:"required_if=Type MULTIPLE_SELECT"`
}

type CreateQuizRequest struct {
	SectionID    *uint             `json:"section_id"`
	Title        string            `json:"title" validate:"required,min=3,max=100"`
	PassingScore int               `json:"passing_score" validate:"gte=0,lte=100"`
	MaxAttempts  int               `json:"max_attempts" validate:"gte=1"`
	Questions    []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CreateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		reqData := new(SectionRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

func UpdateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"section_id": "sectionID"}); err != nil {
			return err
		}
		reqData := new(SectionRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

func DeleteSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"section_id": "sectionID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func CreateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLectureRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func UpdateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"lecture_id": "lectureID"}); err != nil {
			return err
		}
		reqData := new(UpdateLectureRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedLectureUpdate", reqData)
		return c.Next()
	}
}

func DeleteLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"lecture_id": "lectureID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func DeleteQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"quiz_id": "quizID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		reqData := new(CreateQuizRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func RecomputeCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

type EnrollmentQuery struct {
	Page   int    `query:"page" validate:"omitempty,gte=1"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Status string `query:"status" validate:"omitempty,oneof=ENROLLED IN_PROGRESS COMPLETED"`
}

func GetCourseEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		reqData := new(EnrollmentQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}
		c.Locals("validatedEnrollmentQuery", reqData)
		return c.Next()
	}
}

func GetStudentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID", "user_id": "studentID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		return c.Next()
	}
}
