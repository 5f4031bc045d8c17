package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrToolNotFound         = errors.New("tool not found")
	ErrInvalidToolArguments = errors.New("invalid tool arguments")
	ErrNoToolCalls          = errors.New("model did not request any tool call")
)
