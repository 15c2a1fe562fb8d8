package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lborres/flex/core"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// Validator checks request bodies before they reach storage.
//
// Credential failures map onto the sentinel errors in core so the HTTP layer
// can pick a status. Profile failures are collected into one ErrInvalidProfile.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{v: v}
}

func (v *Validator) SignUp(in core.SignUpInput) error {
	if err := v.email(in.Email); err != nil {
		return err
	}
	if err := v.v.Var(in.Password, "required"); err != nil {
		return core.ErrPasswordRequired
	}
	if err := v.v.Var(in.Password, fmt.Sprintf("min=%d", MinPasswordLength)); err != nil {
		return fmt.Errorf("%w: minimum of %d characters", core.ErrPasswordTooShort, MinPasswordLength)
	}
	if err := v.v.Var(in.Password, fmt.Sprintf("max=%d", MaxPasswordLength)); err != nil {
		return fmt.Errorf("%w: maximum of %d characters", core.ErrPasswordTooLong, MaxPasswordLength)
	}
	return nil
}

// SignIn only checks presence and shape; length rules apply at sign-up.
func (v *Validator) SignIn(in core.SignInInput) error {
	if err := v.email(in.Email); err != nil {
		return err
	}
	if err := v.v.Var(in.Password, "required"); err != nil {
		return core.ErrPasswordRequired
	}
	return nil
}

func (v *Validator) email(email string) error {
	if err := v.v.Var(email, "required"); err != nil {
		return core.ErrEmailRequired
	}
	if err := v.v.Var(email, "email"); err != nil {
		return core.ErrInvalidEmail
	}
	return nil
}

func (v *Validator) Profile(in core.ProfileInput) error {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate profile: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", core.ErrInvalidProfile, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
