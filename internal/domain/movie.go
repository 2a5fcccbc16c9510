package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MovieStatus is the ticket availability state of a movie screening.
type MovieStatus string

const (
	StatusAvailable MovieStatus = "AVAILABLE"
	StatusBookASAP  MovieStatus = "BOOK_ASAP"
	StatusSoldOut   MovieStatus = "SOLD_OUT"
)

// BookASAPThreshold is the availability at or under which a screening is
// advertised as BOOK_ASAP.
const BookASAPThreshold = 20

// ParseMovieStatus accepts the canonical spelling as well as the legacy
// "SOLD OUT" / "BOOK ASAP" forms and any letter case.
func ParseMovieStatus(raw string) (MovieStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch MovieStatus(normalized) {
	case StatusAvailable, StatusBookASAP, StatusSoldOut:
		return MovieStatus(normalized), nil
	case "":
		return "", nil
	}
	return "", fmt.Errorf("unknown movie status %q", raw)
}

// StatusForAvailability derives the status from the remaining ticket count.
func StatusForAvailability(available int) MovieStatus {
	switch {
	case available <= 0:
		return StatusSoldOut
	case available <= BookASAPThreshold:
		return StatusBookASAP
	default:
		return StatusAvailable
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *MovieStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMovieStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Movie is a single screening of a film in a theatre. Several screenings can
// share a name.
type Movie struct {
	ID               string      `json:"movieId,omitempty"`
	Name             string      `json:"movieName"`
	TheatreName      string      `json:"theatreName"`
	TicketsAvailable int         `json:"ticketsAvailable"`
	Status           MovieStatus `json:"status"`
	ReviewCount      int         `json:"reviewCount"`
	Rating           float64     `json:"rating,omitempty"`
	Poster           string      `json:"moviePoster,omitempty"`
	Description      string      `json:"description,omitempty"`
	Director         string      `json:"director,omitempty"`
	Cast             []string    `json:"cast,omitempty"`
	Genre            string      `json:"genre,omitempty"`
	Language         string      `json:"language,omitempty"`
	Duration         int         `json:"duration,omitempty"`
	ReleaseDate      string      `json:"releaseDate,omitempty"`
	Certificate      string      `json:"certificate,omitempty"`
	TrailerURL       string      `json:"trailerUrl,omitempty"`
	BookMyShowURL    string      `json:"bookMyShowUrl,omitempty"`
}

// UniqueByName collapses movies sharing a name, keeping the first occurrence
// and preserving the input order.
func UniqueByName(movies []Movie) []Movie {
	seen := make(map[string]struct{}, len(movies))
	out := make([]Movie, 0, len(movies))
	for _, movie := range movies {
		if _, ok := seen[movie.Name]; ok {
			continue
		}
		seen[movie.Name] = struct{}{}
		out = append(out, movie)
	}
	return out
}
