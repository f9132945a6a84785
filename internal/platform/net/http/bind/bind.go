// Package bind decodes JSON request bodies and validates them with
// go-playground/validator, reporting failures as project errors
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"

	perr "careview/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/nyaruka/phonenumbers"
)

// MaxBody caps decoded request bodies
const MaxBody = 1 << 20

// ValidatorSvc is the shared validator and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *ValidatorSvc
)

// messages overrides or adds translations, keyed by tag
var messages = map[string]string{
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"has_text": "{0} must not be blank",
	"e164":     "{0} must be a phone number in international format",
	"phone":    "{0} must be a valid phone number",
}

// Get returns the shared validator. Messages name fields by their json tag
func Get() *ValidatorSvc {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterValidation("has_text", func(fl validator.FieldLevel) bool {
			return HasText(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return Phone(fl.Field().String())
		})
		for tag, text := range messages {
			register(v, trans, tag, text)
		}
		svc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return svc
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func register(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// HasText reports whether s has a visible character. Spaces, controls and
// format characters such as U+200B do not count. s itself is never changed
func HasText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsSpace(r) && !unicode.IsControl(r) && !unicode.Is(unicode.Cf, r)
	}) >= 0
}

// Phone reports whether s is a "+" prefixed number that is valid in its
// country's numbering plan
func Phone(s string) bool {
	if !strings.HasPrefix(s, "+") {
		return false
	}
	n, err := phonenumbers.Parse(s, "")
	return err == nil && phonenumbers.IsValidNumber(n)
}

// Valid reports whether v passes the validator tag, e.g. "required,e164"
func Valid(v any, tag string) bool { return Get().Validator.Var(v, tag) == nil }

// Struct validates v's tags. The first failing field becomes a Validation
// error tagged with that field. Values that are not structs pass
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	var inv *validator.InvalidValidationError
	if err == nil || errors.As(err, &inv) {
		return nil
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// FieldAndMessage is the first failing field of a validator error and its
// translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

// DecodeJSON reads one JSON value from r's body into T. Unknown fields,
// empty bodies, trailing data and bodies over MaxBody are JSON errors
func DecodeJSON[T any](r *http.Request) (T, error) {
	var dst T
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		var zero T
		if errors.Is(err, io.EOF) {
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		var zero T
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	return dst, nil
}

// ParseJSON is DecodeJSON followed by Struct
func ParseJSON[T any](r *http.Request) (T, error) {
	dst, err := DecodeJSON[T](r)
	if err != nil {
		return dst, err
	}
	if err := Struct(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}
