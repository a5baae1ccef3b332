package domain

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrNoToken       = errors.New("no oauth token stored")
	ErrNotConfigured = errors.New("integration not configured")
	ErrInvalidInput  = errors.New("invalid input")
)
