package domain

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrTestCompleted  = errors.New("test already completed")
)
