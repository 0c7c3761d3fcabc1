// Package validation runs declarative per-field checks against a request and
// records every failure in the request locals. Routes read the failures back
// through Errors, usually via middleware.HandleErrors.
package validation

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Request locations a chain can read from.
const (
	LocationBody   = "body"
	LocationParams = "params"
)

const defaultMessage = "Invalid value"

// FieldError describes one failed check.
type FieldError struct {
	Type     string      `json:"type"`
	Value    interface{} `json:"value,omitempty"`
	Msg      string      `json:"msg"`
	Path     string      `json:"path"`
	Location string      `json:"location"`
}

type localsKey int

const (
	errorsKey localsKey = iota
	bodyKey
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("jsonstring", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil
	})
	// float accepts any decimal literal, including ".5" and "1e3".
	_ = v.RegisterValidation("float", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	return v
}

type rule struct {
	check   func(value interface{}) bool
	message string
}

// Chain is an ordered list of checks on a single request field. Every check
// runs; each one that fails adds its own FieldError.
type Chain struct {
	location string
	field    string
	rules    []rule
}

// Body starts a chain on a field of the JSON request body.
func Body(field string) *Chain {
	return &Chain{location: LocationBody, field: field}
}

// Param starts a chain on a route parameter.
func Param(field string) *Chain {
	return &Chain{location: LocationParams, field: field}
}

func (ch *Chain) add(check func(value interface{}) bool) *Chain {
	ch.rules = append(ch.rules, rule{check: check, message: defaultMessage})
	return ch
}

// IsString requires the value to be a string.
func (ch *Chain) IsString() *Chain {
	return ch.add(func(value interface{}) bool {
		return validate.Var(value, "jsonstring") == nil
	})
}

// IsFloat requires the value, in string form, to be a decimal number.
// Leading dots and exponents are accepted.
func (ch *Chain) IsFloat() *Chain {
	return ch.add(func(value interface{}) bool {
		return validate.Var(ToString(value), "required,float") == nil
	})
}

// IsInt requires the value, in string form, to be an integer.
func (ch *Chain) IsInt() *Chain {
	return ch.add(func(value interface{}) bool {
		return validate.Var(ToString(value), "required,integer") == nil
	})
}

// Custom adds an arbitrary predicate.
func (ch *Chain) Custom(check func(value interface{}) bool) *Chain {
	return ch.add(check)
}

// WithMessage sets the message reported when the previous check fails.
func (ch *Chain) WithMessage(msg string) *Chain {
	if n := len(ch.rules); n > 0 {
		ch.rules[n-1].message = msg
	}
	return ch
}

// Check runs the chain against the request and returns the failures without
// recording them.
func (ch *Chain) Check(c *fiber.Ctx) []FieldError {
	value := ch.value(c)

	var errs []FieldError
	for _, r := range ch.rules {
		if r.check(value) {
			continue
		}
		errs = append(errs, FieldError{
			Type:     "field",
			Value:    value,
			Msg:      r.message,
			Path:     ch.field,
			Location: ch.location,
		})
	}
	return errs
}

// Handler returns a fiber handler that records the chain's failures and
// always continues to the next handler.
func (ch *Chain) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := ch.Check(c); len(errs) > 0 {
			c.Locals(errorsKey, append(Errors(c), errs...))
		}
		return c.Next()
	}
}

func (ch *Chain) value(c *fiber.Ctx) interface{} {
	if ch.location == LocationParams {
		return c.Params(ch.field)
	}
	v, ok := BodyFields(c)[ch.field]
	if !ok {
		return nil
	}
	return v
}

// Errors returns the failures recorded so far for this request.
func Errors(c *fiber.Ctx) []FieldError {
	errs, _ := c.Locals(errorsKey).([]FieldError)
	return errs
}

// ToString renders a decoded JSON value the way it would be written in a
// query string. Missing values, objects and arrays become "".
func ToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
