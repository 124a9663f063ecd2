package domain

import "errors"

var (
	ErrNotFound        = errors.New("beer not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
