package services

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrAlreadySubmitted  = errors.New("email already submitted")
	ErrNoData            = errors.New("no data found")
	ErrTokenInvalid      = errors.New("token is not valid")
	ErrTokenExpired      = errors.New("token expired")
)
