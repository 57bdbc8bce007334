package session

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionLimit     = errors.New("session limit reached")
	ErrUnknownDimension = errors.New("unknown readiness dimension")
	ErrUnknownCriterion = errors.New("unknown use-case criterion")
	ErrUseCaseNotFound  = errors.New("use case not found")
	ErrUseCaseLimit     = errors.New("use case limit reached")
	ErrUseCaseMinimum   = errors.New("use case minimum reached")
)
