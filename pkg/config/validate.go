package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

func translateError(err error) []error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		vv := translateError(err)
		vvString := make([]string, 0, len(vv))
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(vvString, "; "))
	}
	return nil
}
