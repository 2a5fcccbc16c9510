package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestUniqueByName(t *testing.T) {
	movies := []Movie{
		{Name: "Inception", TheatreName: "PVR"},
		{Name: "Oppenheimer", TheatreName: "PVR"},
		{Name: "Inception", TheatreName: "INOX"},
	}

	got := UniqueByName(movies)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Inception" || got[0].TheatreName != "PVR" {
		t.Fatalf("first entry = %+v, want Inception@PVR", got[0])
	}
	if got[1].Name != "Oppenheimer" {
		t.Fatalf("second entry = %+v, want Oppenheimer", got[1])
	}
}

func TestUniqueByNameEmpty(t *testing.T) {
	if got := UniqueByName(nil); len(got) != 0 {
		t.Fatalf("UniqueByName(nil) = %v, want empty", got)
	}
}

func TestParseMovieStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    MovieStatus
		wantErr bool
	}{
		{"AVAILABLE", StatusAvailable, false},
		{"SOLD OUT", StatusSoldOut, false},
		{"book asap", StatusBookASAP, false},
		{"sold-out", StatusSoldOut, false},
		{"", "", false},
		{"MAYBE", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMovieStatus(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMovieStatus(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseMovieStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMovieDecodesLegacyStatus(t *testing.T) {
	var movie Movie
	if err := json.Unmarshal([]byte(`{"movieName":"Inception","status":"BOOK ASAP"}`), &movie); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if movie.Status != StatusBookASAP {
		t.Fatalf("status = %q, want %q", movie.Status, StatusBookASAP)
	}
}

func TestStatusForAvailability(t *testing.T) {
	if got := StatusForAvailability(0); got != StatusSoldOut {
		t.Fatalf("0 seats -> %q", got)
	}
	if got := StatusForAvailability(BookASAPThreshold); got != StatusBookASAP {
		t.Fatalf("%d seats -> %q", BookASAPThreshold, got)
	}
	if got := StatusForAvailability(BookASAPThreshold + 1); got != StatusAvailable {
		t.Fatalf("%d seats -> %q", BookASAPThreshold+1, got)
	}
}

func TestUserHasRole(t *testing.T) {
	u := User{Roles: []string{"ROLE_ADMIN"}}
	if !u.HasRole("admin") || !u.IsAdmin() {
		t.Fatalf("expected admin role to match")
	}
	if u.HasRole("USER") {
		t.Fatalf("unexpected USER role")
	}
}

func TestErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Op: "delete movie", Kind: ErrUnauthorized, Status: 401})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("errors.Is(ErrUnauthorized) = false for %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is(ErrNotFound) = true for %v", err)
	}
}

func FuzzParseMovieStatus(f *testing.F) {
	f.Add("SOLD OUT")
	f.Add("available")
	f.Fuzz(func(t *testing.T, raw string) {
		got, err := ParseMovieStatus(raw)
		if err != nil {
			return
		}
		switch got {
		case "", StatusAvailable, StatusBookASAP, StatusSoldOut:
		default:
			t.Fatalf("ParseMovieStatus(%q) = %q outside the enum", raw, got)
		}
	})
}

func BenchmarkUniqueByName(b *testing.B) {
	movies := make([]Movie, 0, 500)
	for i := 0; i < 500; i++ {
		movies = append(movies, Movie{Name: fmt.Sprintf("movie-%d", i%50), TheatreName: fmt.Sprintf("t-%d", i)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = UniqueByName(movies)
	}
}
