package courseValidator

import "github.com/gofiber/fiber/v2"

type WatchLectureRequest struct {
	WatchTimeSeconds float64 `json:"watch_time_seconds" validate:"gte=0"`
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"id": "courseID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func MarkLectureWatched() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID", "lecture_id": "lectureID"}); err != nil {
			return err
		}
		reqData := new(WatchLectureRequest)
		if ok, err := bindBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedWatchLecture", reqData)
		return c.Next()
	}
}

func MarkLectureComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID", "lecture_id": "lectureID"}); err != nil {
			return err
		}
		return c.Next()
	}
}

func CertificateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireIDs(c, map[string]string{"course_id": "courseID"}); err != nil {
			return err
		}
		return c.Next()
	}
}
