package models

import "errors"

// Application-wide standard errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = errors.New("session not found")

	ErrSessionNotInitialized = errors.New("session is not initialized")
	ErrSessionFinished       = errors.New("session has already ended")

	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
