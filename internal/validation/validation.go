package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid matches every *Error via errors.Is
var ErrInvalid = errors.New("validation failed")

// FieldError описывает одну ошибку валидации поля
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Error is returned when an entity fails Validate()
type Error struct {
	Fields []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalid) work for wrapped validation errors
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Fail builds a single-field validation error
func Fail(field, msg string) error {
	return &Error{Fields: []FieldError{{Field: field, Msg: msg}}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках берем из json тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank: строка не должна быть пустой после trim
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validator: %v", err))
	}

	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates a tagged struct and converts validator errors into *Error
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Msg:   getErrorMessage(fe.Field(), fe.Tag(), fe.Param()),
		})
	}
	return out
}

// Var validates a single value against a tag expression
func Var(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %s: %w", field, err)
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: field,
			Msg:   getErrorMessage(field, fe.Tag(), fe.Param()),
		})
	}
	return out
}

// NormalizeName trims a user-supplied name and rejects blank values
func NormalizeName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Fail(field, fmt.Sprintf("%s cannot be empty", field))
	}
	return name, nil
}

// NormalizeColor lower-cases a hex colour and checks its format
func NormalizeColor(color string) (string, error) {
	color = strings.ToLower(strings.TrimSpace(color))
	if err := Var("color", color, "required,hexcolor"); err != nil {
		return "", err
	}
	return color, nil
}

func getErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex colour like #a1b2c3", field)
	case "hexadecimal":
		return fmt.Sprintf("%s must be a hex string", field)
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s check", field, tag)
	}
}
