package courseValidator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coursetrack/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// requireIDs validates each named path parameter and stores it in Locals
// under the matching key.
func requireIDs(c *fiber.Ctx, params map[string]string) error {
	for param, local := range params {
		id, ok := parseID(c, param)
		if !ok {
			label := strings.ReplaceAll(param, "_", " ")
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", label), nil)
		}
		c.Locals(local, id)
	}
	return nil
}

// bindBody parses the JSON body into dst and runs struct validation. It
// returns a non-nil response error when the request must stop here.
func bindBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if err := validate.Struct(dst); err != nil {
		return false, middleware.ValidationErrorResponse(c, validationErrors(err))
	}
	return true, nil
}

func validationErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Namespace()] = fmt.Sprintf("failed on '%s' rule", fe.Tag())
	}
	return out
}
