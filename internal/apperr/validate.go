package apperr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the struct tags of v. Field failures come back as a
// Validation error carrying one message per field.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Internal(err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describe(fe))
	}
	return Validation(MsgInvalidData, fields...)
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s là bắt buộc", field)
	case "max":
		return fmt.Sprintf("%s không được vượt quá %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s phải lớn hơn hoặc bằng %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s phải nhỏ hơn hoặc bằng %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s phải là một trong: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s không đúng định dạng email", field)
	default:
		return fmt.Sprintf("%s không hợp lệ", field)
	}
}
