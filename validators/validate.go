// Package validators holds helpers shared by the per-route validators.
package validators

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their json name so errors match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v and returns one message per failing field, or nil.
func Struct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		errors[field] = message(fe)
	}
	return errors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Invalid email!"
	case "min":
		return "Must be at least " + fe.Param() + " long!"
	case "max":
		return "Must be at most " + fe.Param() + " long!"
	case "gte":
		return "Must be greater than or equal to " + fe.Param() + "!"
	case "lte":
		return "Must be less than or equal to " + fe.Param() + "!"
	case "oneof":
		return "Must be one of: " + fe.Param() + "!"
	case "unique":
		return "Values must be unique!"
	case "eqfield":
		return "Must match " + fe.Param() + "!"
	default:
		return "Invalid value!"
	}
}

// ParamID reads a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
