package models

import "errors"

// Custom errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrUnknownSurface     = errors.New("unknown surface")
	ErrUnknownGender      = errors.New("unknown gender")
	ErrInvalidProbability = errors.New("invalid probability")
	ErrInvalidTrialCount  = errors.New("invalid trial count")
	ErrNoTrialsCompleted  = errors.New("no trials completed")
	ErrIllegalScore       = errors.New("illegal set score")
	ErrInsufficientSample = errors.New("insufficient sample: outcome has no probability mass")
	ErrInvalidQuote       = errors.New("invalid bookmaker quote")
	ErrStatsUnavailable   = errors.New("stats unavailable")
	ErrInvalidOverride    = errors.New("invalid stat override")
	ErrInvalidMatchup     = errors.New("invalid matchup")
)
