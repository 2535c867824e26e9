package service

import (
	"errors"
	"fmt"
	"strings"

	"task-manager/pkg/crypto"

	"github.com/go-playground/validator/v10"
)

type UserDto struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=3,max=72"`
}

type TaskStatusDto struct {
	Name string `json:"name" validate:"required"`
}

type LabelDto struct {
	Name string `json:"name" validate:"required"`
}

type TaskDto struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	ExecutorID   *int64  `json:"executorId"`
	TaskStatusID *int64  `json:"taskStatusId" validate:"required"`
	LabelIDs     []int64 `json:"labelIds"`
}

type LoginDto struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (d *UserDto) normalize() {
	d.Email = strings.TrimSpace(d.Email)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
}

// hashPassword maps inputs bcrypt cannot take to a validation error; the
// max tag counts runes, not bytes.
func hashPassword(password string) (string, error) {
	hashed, err := crypto.HashPassword(password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", &Error{
			Kind:    ErrValidation,
			Message: "Validation error",
			Details: fmt.Sprintf("password must be at most %d bytes", crypto.MaxPasswordBytes),
			Err:     err,
		}
	}
	return hashed, err
}

// validateStruct runs the validator and wraps failures as ErrValidation.
func validateStruct(v *validator.Validate, dto interface{}) error {
	if err := v.Struct(dto); err != nil {
		return &Error{Kind: ErrValidation, Message: "Validation error", Details: err.Error(), Err: err}
	}
	return nil
}
