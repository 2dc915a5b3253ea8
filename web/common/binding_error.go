package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"axiapac.com/attendance/core"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation errors name fields the way clients send them: the json key,
// or the form key for multipart-only fields.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// %[1]s is the field, %[2]s the tag parameter.
var fieldMessages = map[string]string{
	"required": "Field '%[1]s' is required",
	"email":    "Field '%[1]s' must be a valid email",
	"url":      "Field '%[1]s' must be a valid URL",
	"min":      "Field '%[1]s' must be at least %[2]s",
	"max":      "Field '%[1]s' must be at most %[2]s",
	"len":      "Field '%[1]s' must have length %[2]s",
	"numeric":  "Field '%[1]s' must be numeric",
	"alphanum": "Field '%[1]s' must be alphanumeric",
	"datetime": "Field '%[1]s' must match the format %[2]s",
	"oneof":    "Field '%[1]s' must be one of [%[2]s]",
}

func describeFieldError(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return fmt.Sprintf(msg, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Field '%s' failed validation for '%s'", fe.Field(), fe.Tag())
}

// NewBindingErrorResponse explains why a request body or query could not
// be bound. Field is set to the first offending field when one is known.
func NewBindingErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Reason: core.ReasonInvalidRequest}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
		fieldErrs validator.ValidationErrors
	)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		resp.Message = "Request body is empty"
	case errors.As(err, &syntaxErr):
		resp.Message = fmt.Sprintf("Invalid JSON at byte offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		resp.Field = typeErr.Field
		resp.Message = fmt.Sprintf("Field '%s' should be of type %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &numErr):
		resp.Message = fmt.Sprintf("Value %q is not valid", numErr.Num)
	case errors.As(err, &fieldErrs):
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		resp.Field = fieldErrs[0].Field()
		resp.Message = strings.Join(msgs, ", ")
	default:
		resp.Message = err.Error()
	}
	return resp
}
