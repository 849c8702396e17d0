package models

import "errors"

// Sentinel errors returned by repositories and services. Handlers map
// these to HTTP status codes themselves; nothing propagates to a global
// error handler.
var (
	ErrNotFound           = errors.New("not found")
	ErrUserConflict       = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account has been blocked")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUnsupportedMedia   = errors.New("invalid file type, only JPEG, PNG and GIF are allowed")
)
