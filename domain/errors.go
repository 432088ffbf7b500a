package domain

import "errors"

var (
	ErrPlaceNotFound          = errors.New("place not found")
	ErrConfigNotFound         = errors.New("recommendation config not found")
	ErrGeneratorNotConfigured = errors.New("generative service not configured")
)
