package models

import "fmt"

// Genre is a closed set of book genres. Adding a genre means adding a
// constant here and extending Valid, which every consumption site shares.
type Genre string

const (
	GenreFiction    Genre = "fiction"
	GenreNonfiction Genre = "nonfiction"
	GenreMystery    Genre = "mystery"
	GenreFantasy    Genre = "fantasy"
	GenreSciFi      Genre = "scifi"
	GenreRomance    Genre = "romance"
	GenreHistory    Genre = "history"
	GenreBiography  Genre = "biography"
)

// Valid reports whether g is a member of the closed genre set.
func (g Genre) Valid() bool {
	switch g {
	case GenreFiction, GenreNonfiction, GenreMystery, GenreFantasy,
		GenreSciFi, GenreRomance, GenreHistory, GenreBiography:
		return true
	}
	return false
}

// ParseGenre converts a wire string into a Genre, rejecting unknown values.
func ParseGenre(s string) (Genre, error) {
	g := Genre(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown genre %q", s)
	}
	return g, nil
}
