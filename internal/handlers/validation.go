package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that also understands maxbytes=N, a length limit in bytes
// rather than runes.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// validationMessages turns validator errors into a field -> message map for the response body.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		messages["body"] = "invalid request"
		return messages
	}
	for _, e := range validationErrors {
		messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return messages
}
