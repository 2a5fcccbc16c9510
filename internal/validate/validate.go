// Package validate runs the declarative form rules shared by the client and
// the mock backend. Rules live in struct tags and are evaluated in declared
// order; only the first failing rule of each field is reported.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

var std = newValidator()

// Result is the outcome of checking one form.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// Err converts a failed result into a *domain.Error of kind ErrValidation.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.Error{Op: "validate", Kind: domain.ErrValidation, Fields: r.Errors}
}

// First returns the message of the first failing field in declaration order
// of the form, for callers that show a single error string.
func (r Result) First(form any) string {
	if r.Valid {
		return ""
	}
	t := reflect.Indirect(reflect.ValueOf(form)).Type()
	for i := 0; i < t.NumField(); i++ {
		if msg, ok := r.Errors[jsonName(t.Field(i))]; ok {
			return msg
		}
	}
	for _, msg := range r.Errors {
		return msg
	}
	return ""
}

// Check validates form, which must be a struct or a pointer to one.
func Check(form any) Result {
	err := std.Struct(form)
	if err == nil {
		return Result{Valid: true, Errors: map[string]string{}}
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return Result{Errors: map[string]string{"form": invalid.Error()}}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{Errors: map[string]string{"form": err.Error()}}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := baseField(fe.Field())
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe)
	}
	return Result{Errors: out}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	mustRegister(v, "phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "lenfield", lenField)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

// lenField passes when the length of the field equals the integer value of
// the sibling field named by the tag parameter.
func lenField(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}
	other := parent.FieldByName(fl.Param())
	if !other.IsValid() {
		return false
	}
	switch other.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int64(fl.Field().Len()) == other.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uint64(fl.Field().Len()) == other.Uint()
	}
	return false
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func baseField(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}
