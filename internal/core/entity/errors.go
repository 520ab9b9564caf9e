package entity

import "errors"

var (
	ErrMissingID    = errors.New("entity id is required")
	ErrInvalidRange = errors.New("valid range start is after end")
	ErrDuplicateID  = errors.New("entity id already exists")
	ErrNotFound     = errors.New("entity not found")
	ErrCycle        = errors.New("parent link would create a cycle")
)
