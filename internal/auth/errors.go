package auth

import "errors"

var (
	// ErrInvalidToken indicates the token failed validation. The reason is
	// deliberately not exposed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized indicates an authenticated caller lacks permission.
	ErrUnauthorized = errors.New("auth: unauthorized")
)
