// Package validation registers the form rules shared by every listing form
// on gin's validator and turns binding failures into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/fyyur-backend/internal/app/model"
)

var phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

// States lists the accepted two letter codes in display order.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
	"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
	"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH",
	"OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
	"WY",
}

var stateSet = func() map[string]bool {
	m := make(map[string]bool, len(States))
	for _, s := range States {
		m[s] = true
	}
	return m
}()

var (
	registerOnce sync.Once
	registerErr  error

	standaloneOnce sync.Once
	standalone     *validator.Validate
)

// Register installs the phone, state and genre rules on gin's validator
// and makes field errors report the form field name. Safe to call more
// than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the rules on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"phone": validatePhone,
		"state": validateState,
		"genre": validateGenre,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Check validates a single value against a tag list outside of request
// binding, with the same custom rules. It returns the form message for the
// first failing tag, or "" when the value passes.
func Check(value any, tag string) string {
	standaloneOnce.Do(func() {
		standalone = validator.New()
		if err := RegisterOn(standalone); err != nil {
			panic(err)
		}
	})

	err := standalone.Var(value, tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0])
	}
	return "Invalid value"
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateState(fl validator.FieldLevel) bool {
	return stateSet[strings.ToUpper(fl.Field().String())]
}

func validateGenre(fl validator.FieldLevel) bool {
	return model.IsValidGenre(fl.Field().String())
}

// FieldErrors maps a binding error to form field messages. Errors that are
// not validation failures land under the "form" key.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = "The form could not be read. Please check the values and try again"
		return fields
	}

	for _, fe := range verrs {
		name := fieldName(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(fe)
	}
	return fields
}

// fieldName strips the slice index from dive errors, so genres[2] reports
// as genres.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "phone":
		return "Phone must look like 123-123-1234"
	case "state":
		return "Select a valid state"
	case "genre":
		return fmt.Sprintf("Unknown genre: %v", fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Select at least one option"
		}
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "url":
		return "Enter a valid URL"
	case "gt":
		return "Select an option"
	case "numeric":
		return "Enter a number"
	}
	return "Invalid value"
}
