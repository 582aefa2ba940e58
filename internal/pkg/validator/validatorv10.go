package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/passgate/passgate/internal/pkg/strcase"
)

// V10ValidationError carries per-field validation messages.
type V10ValidationError struct {
	fields map[string]string
}

// Error implements the error interface.
func (ve *V10ValidationError) Error() string {
	msgs := make([]string, 0, len(ve.fields))
	for _, msg := range ve.fields {
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the map of field name to validation message.
func (ve *V10ValidationError) Fields() map[string]string {
	return ve.fields
}

// V10Validator is a Validator backed by github.com/go-playground/validator.
type V10Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewV10Validator constructs the validator with English translations and the
// custom rules used by this service registered.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	v := &V10Validator{validate: validate, trans: trans}

	if err := v.registerLoginEmail(); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate checks the struct and returns a *V10ValidationError on violation.
func (v *V10Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalidErr *validator.InvalidValidationError
	if errors.As(err, &invalidErr) {
		return err
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.trans)
	}

	return &V10ValidationError{fields: fields}
}

// registerLoginEmail registers the "loginemail" rule. The rule is deliberately
// lenient: the value must be non-blank, contain an '@', and have a '.'
// somewhere after the '@'. Full RFC 5322 parsing is out of scope for a login
// form.
func (v *V10Validator) registerLoginEmail() error {
	err := v.validate.RegisterValidation("loginemail", func(fl validator.FieldLevel) bool {
		return IsLoginEmail(fl.Field().String())
	})
	if err != nil {
		return err
	}

	return v.validate.RegisterTranslation("loginemail", v.trans,
		func(ut ut.Translator) error {
			return ut.Add("loginemail", "{0} must be a valid email address", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T("loginemail", fe.Field())
			if err != nil {
				return fe.Field() + " must be a valid email address"
			}
			return msg
		},
	)
}

// IsLoginEmail reports whether the value passes the login email rule:
// non-blank, contains '@', and contains '.' after the '@'.
func IsLoginEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}

	at := strings.IndexByte(value, '@')
	if at < 0 {
		return false
	}

	dot := strings.LastIndexByte(value, '.')

	return dot > at
}
