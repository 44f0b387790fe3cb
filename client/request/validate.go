package request

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("request: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// specFields is the validated view of a Spec.
type specFields struct {
	Method string `json:"method" validate:"required,oneof=GET POST PUT DELETE"`
	URL    string `json:"url" validate:"required"`
}

// Validate checks the method is one of the supported verbs and the URL is
// not empty. The returned error wraps [ErrInvalidSpec] and [FieldErrors].
func (s Spec) Validate() error {
	fields := specFields{
		Method: string(s.method),
		URL:    s.url,
	}

	if err := validate.Struct(fields); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}

		var fe FieldErrors
		for _, verror := range verrors {
			fe = append(fe, FieldError{
				Field: verror.Field(),
				Err:   customErrForTag(verror.Tag(), verror),
			})
		}

		return fmt.Errorf("%w: %w", ErrInvalidSpec, fe)
	}

	return nil
}

// FieldError is a single failed check on a Spec field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors collects every failed check.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	default:
		return verror.Translate(translator)
	}
}

// Fields returns the failed checks keyed by field name.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}

	return m
}
