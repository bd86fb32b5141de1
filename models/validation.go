package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors collects messages that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

const (
	msgRequired = "This field is required."
	msgNull     = "This field may not be null."
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError lists the messages for every offending field.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

// Add records a message against field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Has reports whether field already has a message.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return strings.Join(parts, "; ")
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct applies the validator tags of v. It returns nil when v is valid.
func ValidateStruct(v interface{}) *ValidationError {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	verr := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(NonFieldErrors, err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), translate(fe))
	}
	return verr
}

func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation.", fe.Tag())
	}
}

// DecodeRecord decodes a JSON request body onto dst and validates the result.
// With partial set, keys absent from body keep the value already in dst and
// required keys are not enforced. The returned error is a *ValidationError.
func DecodeRecord(body []byte, dst interface{}, schema Schema, partial bool) error {
	verr := &ValidationError{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		verr.Add(NonFieldErrors, "Invalid data. Expected a JSON object.")
		return verr
	}

	if !partial {
		for _, field := range schema.Required {
			if _, ok := raw[field]; !ok {
				verr.Add(field, msgRequired)
			}
		}
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		if schema.Known(field) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	// Each key is decoded on its own so that every mistyped field is reported,
	// not only the first one encoding/json stops at.
	for _, field := range fields {
		value := raw[field]
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) && !schema.IsNullable(field) {
			verr.Add(field, msgNull)
			continue
		}
		single, err := json.Marshal(map[string]json.RawMessage{field: value})
		if err != nil {
			verr.Add(field, "Invalid value.")
			continue
		}
		if err := json.Unmarshal(single, dst); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				verr.Add(field, typeMessage(typeErr))
			} else {
				verr.Add(field, "Invalid value.")
			}
		}
	}

	if fieldErrs := ValidateStruct(dst); fieldErrs != nil {
		for field, messages := range fieldErrs.Fields {
			if verr.Has(field) {
				continue
			}
			for _, m := range messages {
				verr.Add(field, m)
			}
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func typeMessage(err *json.UnmarshalTypeError) string {
	switch err.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice:
		return fmt.Sprintf("Expected a list of items but got type %q.", err.Value)
	default:
		return "Invalid value."
	}
}
