package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
	"github.com/yusufkecer/nyenyak-backend/internal/middleware"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		_, err := parseBirthDate(fl.Field().String())
		return err == nil
	})
	return v
}

// parseBirthDate accepts dd-MM-yyyy dates that are not in the future.
func parseBirthDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.BirthDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	if t.After(time.Now()) {
		return time.Time{}, errors.New("birth date is in the future")
	}
	return t, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("INVALID_BODY", "invalid request body")
	}
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("INVALID_BODY", "invalid request body")
	}
	fe := verrs[0]
	return apperr.Validation("INVALID_"+strings.ToUpper(fe.Field()), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "birthdate":
		return fe.Field() + " must be a past date in dd-MM-yyyy format"
	default:
		return fe.Field() + " is invalid"
	}
}

func uidFrom(r *http.Request) (string, error) {
	uid, ok := middleware.UIDFromContext(r.Context())
	if !ok {
		return "", apperr.Unauthorized("missing user identity")
	}
	return uid, nil
}
