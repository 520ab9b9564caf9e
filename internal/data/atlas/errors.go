package atlas

import "errors"

var (
	ErrInvalidAtlas      = errors.New("invalid atlas")
	ErrAlreadyLoaded     = errors.New("atlas already loaded")
	ErrUnknownAtlas      = errors.New("unknown atlas")
	ErrEmptyReference    = errors.New("no reference shapes found")
	ErrInvalidConnection = errors.New("invalid connection")
)
