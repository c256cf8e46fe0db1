// Package validate checks request fields before they reach the engine. Each
// failure carries the message shown to API clients.
package validate

import (
	"errors"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameRegex  = regexp.MustCompile(`^[A-Za-z]+(?:\s[A-Za-z]+)*$`)
)

// Error is a rejected field. Its message is safe to return to clients.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrSignupMissing = &Error{Field: "", Msg: "Name, Email, Age, Income & Passwords are required"}
	ErrName          = &Error{Field: "name", Msg: "Name is not valid as it should not contain any numbers"}
	ErrEmail         = &Error{Field: "email", Msg: "Entered Email is not valid"}
	ErrAge           = &Error{Field: "age", Msg: "Entered age is invalid"}
	ErrIncome        = &Error{Field: "income", Msg: "Entered income is not valid"}
	ErrPassword      = &Error{Field: "password", Msg: "Invalid Password. Password must be of minimum 8 characters"}
)

// SignupInput is the signup payload. A zero age or income counts as missing.
type SignupInput struct {
	Name     string  `validate:"required,person_name"`
	Email    string  `validate:"required,account_email"`
	Age      float64 `validate:"required,gt=0,whole"`
	Income   float64 `validate:"required,gt=0,finite"`
	Password string  `validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `validate:"account_email"`
	Password string `validate:"min=8"`
}

// ProfileInput is the set of fields a profile update may overwrite.
type ProfileInput struct {
	Name   string  `validate:"person_name"`
	Email  string  `validate:"account_email"`
	Age    float64 `validate:"gt=0,whole"`
	Income float64 `validate:"gt=0,finite"`
}

var fieldErrors = map[string]*Error{
	"Name":     ErrName,
	"Email":    ErrEmail,
	"Age":      ErrAge,
	"Income":   ErrIncome,
	"Password": ErrPassword,
}

var checker = newChecker()

func newChecker() *validator.Validate {
	v := validator.New()
	mustRegister(v, "person_name", func(fl validator.FieldLevel) bool {
		return nameRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "account_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	// whole accepts integral values that fit an int32.
	mustRegister(v, "whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f) && f <= math.MaxInt32
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		return !math.IsInf(fl.Field().Float(), 0)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func Email(email string) bool {
	return checker.Var(email, "account_email") == nil
}

// Name accepts letters separated by single spaces.
func Name(name string) bool {
	return checker.Var(name, "person_name") == nil
}

// Age accepts positive whole numbers.
func Age(age float64) bool {
	return checker.Var(age, "gt=0,whole") == nil
}

func Income(income float64) bool {
	return checker.Var(income, "gt=0,finite") == nil
}

func Password(password string) bool {
	return checker.Var(password, "min=8") == nil
}

// Signup returns ErrSignupMissing when any field is absent, otherwise the
// first invalid field in declaration order.
func Signup(in SignupInput) error {
	errs := fieldFailures(checker.Struct(in))
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return ErrSignupMissing
		}
	}
	return firstFailure(errs)
}

// Login checks the email format and password length.
func Login(in LoginInput) error {
	return firstFailure(fieldFailures(checker.Struct(in)))
}

// Profile checks the fields accepted by a profile update.
func Profile(in ProfileInput) error {
	return firstFailure(fieldFailures(checker.Struct(in)))
}

func fieldFailures(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return errs
	}
	// InvalidValidationError only comes from a nil or non-struct input.
	panic(err)
}

func firstFailure(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	if e, ok := fieldErrors[errs[0].StructField()]; ok {
		return e
	}
	return &Error{Field: errs[0].Field(), Msg: errs[0].Error()}
}
