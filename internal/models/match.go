package models

import (
	"fmt"
	"strings"
)

// Surface is the court type a match was played on
type Surface string

// Modelled surfaces
const (
	SurfaceHard  Surface = "Hard"
	SurfaceClay  Surface = "Clay"
	SurfaceGrass Surface = "Grass"
)

// Surfaces lists every modelled surface in display order
var Surfaces = []Surface{SurfaceHard, SurfaceClay, SurfaceGrass}

// ParseSurface parses a surface name case-insensitively
func ParseSurface(s string) (Surface, error) {
	for _, surface := range Surfaces {
		if strings.EqualFold(strings.TrimSpace(s), string(surface)) {
			return surface, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSurface, s)
}

// Gender identifies the tour a player belongs to
type Gender string

// Tours
const (
	GenderMale   Gender = "M" // ATP
	GenderFemale Gender = "F" // WTA
)

// ParseGender accepts M/F as well as the tour names ATP/WTA
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "ATP":
		return GenderMale, nil
	case "F", "WTA":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
	}
}

// Tour returns the tour name for the gender
func (g Gender) Tour() string {
	if g == GenderFemale {
		return "WTA"
	}
	return "ATP"
}

// MatchRecord is one completed match as published in the tour match logs
type MatchRecord struct {
	Surface          Surface `json:"surface" validate:"required,oneof=Hard Clay Grass"`
	Gender           Gender  `json:"gender" validate:"required,oneof=M F"`
	WinnerName       string  `json:"winner_name" validate:"required"`
	LoserName        string  `json:"loser_name" validate:"required"`
	WinnerServePts   int     `json:"w_svpt" validate:"gte=0"`
	WinnerFirstWon   int     `json:"w_1stWon" validate:"gte=0"`
	LoserServePts    int     `json:"l_svpt" validate:"gte=0"`
	LoserFirstWon    int     `json:"l_1stWon" validate:"gte=0"`
}
