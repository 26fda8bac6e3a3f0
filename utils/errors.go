package utils

import "errors"

var (
	ErrEmptyUserID        = errors.New("user ID cannot be empty")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidPagePath    = errors.New("page path must start with /")
	ErrEmptyField         = errors.New("required field is empty")
	ErrInvalidSchedule    = errors.New("scheduled time must be in the future")
	ErrNotFound           = errors.New("not found")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrUnknownAction      = errors.New("unknown user action")
)
