package pkg

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
)

// Validator returns the validator used by gin binding, configured with json field names
// and English default messages. It is safe to call from multiple goroutines.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			v = validator.New()
		}
		v.RegisterTagNameFunc(jsonFieldName)

		english := en.New()
		trans, _ := ut.New(english, english).GetTranslator("en")
		if err := entranslations.RegisterDefaultTranslations(v, trans); err == nil {
			translator = trans
		}
		validate = v
	})
	return validate
}

// FieldErrorMessage returns the default English message of a field error,
// or the validator's raw text when no translation exists.
func FieldErrorMessage(fe validator.FieldError) string {
	Validator()
	if translator == nil {
		return fe.Error()
	}
	return strings.TrimSpace(fe.Translate(translator))
}

// ValidateStruct validates obj with its `binding` tags.
func ValidateStruct(obj any) error {
	err := Validator().Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ObjectValidationError{Errors: verrs}
	}
	return err
}

// ValidateVar checks a single value against a validator tag, e.g. ValidateVar("limit", n, "gt=0,lte=100").
func ValidateVar(path string, value any, tag string) error {
	err := Validator().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	violations := make([]ConstraintViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, ConstraintViolation{Path: path, Message: FieldErrorMessage(fe)})
	}
	return &ConstraintViolationError{Violations: violations}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
