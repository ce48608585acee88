package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

// initValidator configures struct validation, including the "amount" tag for
// non-negative decimal strings.
func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())
	vld.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := vld.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return false
		}
		return !d.IsNegative()
	}); err != nil {
		return nil, fmt.Errorf("registering amount validation: %w", err)
	}
	return vld, nil
}

// validateStruct checks payload against its validate tags and reports the
// first failure in client-readable form.
func validateStruct(payload any) error {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	if errValidate != nil {
		return errValidate
	}
	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return formatValidationError(verrs[0])
		}
		return err
	}
	return nil
}

func formatValidationError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "max":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", field, fe.Param())
	case "amount":
		return fmt.Errorf("%s must be a non-negative decimal amount", field)
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}

// decodeBody reads a single JSON value into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return validateStruct(dst)
}
