package catalog

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

func newTestCatalog(t testing.TB) *Catalog {
	t.Helper()
	c := New(log.New(io.Discard, "", 0), WithBcryptCost(bcrypt.MinCost))
	if err := c.Seed("admin", "admin-pass-1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

func aliceSignUp() domain.SignUp {
	return domain.SignUp{
		Username:      "alice",
		FirstName:     "Alice",
		LastName:      "Liddell",
		Email:         "alice@example.com",
		Password:      "wonderland",
		ContactNumber: "9876543210",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	c := newTestCatalog(t)

	user, err := c.Register(aliceSignUp())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" || user.FirstName != "Alice" || user.IsAdmin() {
		t.Fatalf("registered user = %+v", user)
	}

	if _, err := c.Authenticate("alice", "wonderland"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := c.Authenticate("ALICE", "wonderland"); err != nil {
		t.Fatalf("usernames should be case-insensitive: %v", err)
	}
	if _, err := c.Authenticate("alice", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := c.Authenticate("nobody", "wonderland"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}

	if admin, ok := c.User("admin"); !ok || !admin.IsAdmin() {
		t.Fatalf("seeded admin = %+v", admin)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	c := newTestCatalog(t)
	if _, err := c.Register(aliceSignUp()); err != nil {
		t.Fatalf("register: %v", err)
	}

	dupName := aliceSignUp()
	dupName.Email = "other@example.com"
	_, err := c.Register(dupName)
	if !errors.Is(err, domain.ErrValidation) || domain.FieldErrors(err)["username"] == "" {
		t.Fatalf("duplicate username err = %v", err)
	}

	dupEmail := aliceSignUp()
	dupEmail.Username = "alice2"
	_, err = c.Register(dupEmail)
	if !errors.Is(err, domain.ErrValidation) || domain.FieldErrors(err)["email"] == "" {
		t.Fatalf("duplicate email err = %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	c := newTestCatalog(t)
	_, _ = c.Register(aliceSignUp())

	if err := c.ResetPassword("alice", "looking-glass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := c.Authenticate("alice", "looking-glass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if err := c.ResetPassword("nobody", "whatever12"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestSeedContainsDuplicateNames(t *testing.T) {
	c := newTestCatalog(t)
	movies := c.Movies()
	if len(movies) != len(seedMovies) {
		t.Fatalf("len = %d, want %d", len(movies), len(seedMovies))
	}
	if got := domain.UniqueByName(movies); len(got) != len(movies)-1 {
		t.Fatalf("expected exactly one repeated name, unique = %d", len(got))
	}

	ids := map[string]bool{}
	for _, m := range movies {
		if m.ID == "" || ids[m.ID] {
			t.Fatalf("movie ids must be unique and non-empty: %+v", m)
		}
		ids[m.ID] = true
	}
	if movies[0].ID != "inception-pvr-phoenix" {
		t.Fatalf("slug = %q", movies[0].ID)
	}
}

func TestAddMovieSlugCollision(t *testing.T) {
	c := New(log.New(io.Discard, "", 0))
	a, err := c.AddMovie(domain.Movie{Name: "Dune", TheatreName: "IMAX", TicketsAvailable: 50})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	// Different name and theatre that slugify to the same base.
	b, err := c.AddMovie(domain.Movie{Name: "Dune!", TheatreName: "imax", TicketsAvailable: 50})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if a.ID != "dune-imax" || b.ID != "dune-imax-1" {
		t.Fatalf("ids = %q, %q", a.ID, b.ID)
	}
	if a.Status != domain.StatusAvailable {
		t.Fatalf("status = %q", a.Status)
	}

	if _, err := c.AddMovie(domain.Movie{Name: "dune", TheatreName: "IMAX"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate screening err = %v", err)
	}
}

func TestUpdateMovie(t *testing.T) {
	c := newTestCatalog(t)

	updated, err := c.UpdateMovie("Inception", domain.Movie{TheatreName: "INOX Nehru Place", TicketsAvailable: 5, Genre: "Thriller"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TicketsAvailable != 5 || updated.Status != domain.StatusBookASAP || updated.Genre != "Thriller" {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.Director != "Christopher Nolan" {
		t.Fatalf("empty patch fields must not clear existing values: %+v", updated)
	}

	first, _ := c.Screening("Inception", "PVR Phoenix")
	if first.TicketsAvailable != 120 {
		t.Fatalf("other screening changed: %+v", first)
	}

	if _, err := c.UpdateMovie("Nope", domain.Movie{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown movie err = %v", err)
	}
	if _, err := c.UpdateMovie("Inception", domain.Movie{Name: "Other"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("rename err = %v", err)
	}
}

func TestDeleteMovie(t *testing.T) {
	c := newTestCatalog(t)
	_, _ = c.Register(aliceSignUp())
	if _, err := c.Book("alice", domain.BookingRequest{MovieName: "Inception", TheatreName: "PVR Phoenix", NoOfTickets: 1, SeatNumbers: []string{"A1"}}); err != nil {
		t.Fatalf("book: %v", err)
	}

	n, err := c.DeleteMovie("inception")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed %d screenings, want 2", n)
	}
	if _, err := c.Search("Inception"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("search after delete err = %v", err)
	}
	if _, err := c.DeleteMovie("Inception"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if len(c.Movies()) != len(seedMovies)-2 {
		t.Fatalf("movies left = %d", len(c.Movies()))
	}
}

func TestBook(t *testing.T) {
	tests := []struct {
		name string
		req  domain.BookingRequest
		want error
	}{
		{
			name: "zero tickets",
			req:  domain.BookingRequest{MovieName: "Oppenheimer", NoOfTickets: 0, SeatNumbers: []string{"A1"}},
			want: domain.ErrValidation,
		},
		{
			name: "over capacity",
			req:  domain.BookingRequest{MovieName: "Oppenheimer", NoOfTickets: 16, SeatNumbers: seatRange(16)},
			want: domain.ErrValidation,
		},
		{
			name: "seat count mismatch",
			req:  domain.BookingRequest{MovieName: "Oppenheimer", NoOfTickets: 2, SeatNumbers: []string{"A1"}},
			want: domain.ErrValidation,
		},
		{
			name: "sold out",
			req:  domain.BookingRequest{MovieName: "Interstellar", NoOfTickets: 1, SeatNumbers: []string{"A1"}},
			want: domain.ErrConflict,
		},
		{
			name: "unknown movie",
			req:  domain.BookingRequest{MovieName: "Tenet", NoOfTickets: 1, SeatNumbers: []string{"A1"}},
			want: domain.ErrNotFound,
		},
		{
			name: "valid",
			req:  domain.BookingRequest{MovieName: "Oppenheimer", NoOfTickets: 2, SeatNumbers: []string{"a1", "A2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(t)
			ticket, err := c.Book("alice", tt.req)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("err = %v, want %v", err, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("book: %v", err)
			}
			if ticket.ID == "" || ticket.SeatNumbers[0] != "A1" || ticket.TheatreName != "INOX Nehru Place" {
				t.Fatalf("ticket = %+v", ticket)
			}
			m, _ := c.Screening("Oppenheimer", "")
			if m.TicketsAvailable != 13 || m.Status != domain.StatusBookASAP {
				t.Fatalf("screening after booking = %+v", m)
			}
		})
	}
}

func TestBookAcceptsFreeFormSeatIDs(t *testing.T) {
	c := newTestCatalog(t)
	for _, seats := range [][]string{{"1", "2"}, {"a-1", "A-2"}} {
		ticket, err := c.Book("alice", domain.BookingRequest{MovieName: "Oppenheimer", NoOfTickets: 2, SeatNumbers: seats})
		if err != nil {
			t.Fatalf("book %v: %v", seats, err)
		}
		if ticket.SeatNumbers[1] != strings.ToUpper(seats[1]) {
			t.Fatalf("seats = %v", ticket.SeatNumbers)
		}
	}
	m, _ := c.Screening("Oppenheimer", "")
	if m.TicketsAvailable != 11 {
		t.Fatalf("available = %d, want 11", m.TicketsAvailable)
	}
}

func TestBookRejectsTakenSeats(t *testing.T) {
	c := newTestCatalog(t)
	req := domain.BookingRequest{MovieName: "Inception", TheatreName: "PVR Phoenix", NoOfTickets: 2, SeatNumbers: []string{"B1", "B2"}}
	if _, err := c.Book("alice", req); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	req.SeatNumbers = []string{"B2", "B3"}
	if _, err := c.Book("bob", req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double booking err = %v", err)
	}

	// The same seat in another theatre is free.
	req.TheatreName = "INOX Nehru Place"
	if _, err := c.Book("bob", req); err != nil {
		t.Fatalf("other theatre booking: %v", err)
	}
}

func TestBookConcurrentlyNeverOversells(t *testing.T) {
	c := newTestCatalog(t)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Book(fmt.Sprintf("user%d", i), domain.BookingRequest{
				MovieName: "Oppenheimer", NoOfTickets: 1, SeatNumbers: []string{fmt.Sprintf("C%d", i+1)},
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if success != 15 {
		t.Fatalf("successful bookings = %d, want 15", success)
	}
	m, _ := c.Screening("Oppenheimer", "")
	if m.TicketsAvailable != 0 || m.Status != domain.StatusSoldOut {
		t.Fatalf("screening = %+v", m)
	}
}

func TestTicketsAndRefreshStatus(t *testing.T) {
	c := newTestCatalog(t)
	ticket, err := c.Book("alice", domain.BookingRequest{MovieName: "Oppenheimer", NoOfTickets: 1, SeatNumbers: []string{"D4"}})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	tickets, err := c.Tickets("Oppenheimer")
	if err != nil || len(tickets) != 1 || tickets[0].ID != ticket.ID {
		t.Fatalf("tickets = %+v, %v", tickets, err)
	}
	if got, err := c.Tickets("Inception"); err != nil || len(got) != 0 {
		t.Fatalf("tickets for unbooked movie = %+v, %v", got, err)
	}

	status, err := c.RefreshTicketStatus("Oppenheimer", ticket.ID)
	if err != nil || status != domain.StatusBookASAP {
		t.Fatalf("refresh = %q, %v", status, err)
	}
	if _, err := c.RefreshTicketStatus("Oppenheimer", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown ticket err = %v", err)
	}
}

func TestSweepStatuses(t *testing.T) {
	c := New(log.New(io.Discard, "", 0))
	_, _ = c.AddMovie(domain.Movie{Name: "Dune", TheatreName: "IMAX", TicketsAvailable: 5, Status: domain.StatusAvailable})
	_, _ = c.AddMovie(domain.Movie{Name: "Tenet", TheatreName: "IMAX", TicketsAvailable: 100})

	if n := c.SweepStatuses(); n != 1 {
		t.Fatalf("changed = %d, want 1", n)
	}
	if m, _ := c.Screening("Dune", ""); m.Status != domain.StatusBookASAP {
		t.Fatalf("Dune status = %q", m.Status)
	}
	if n := c.SweepStatuses(); n != 0 {
		t.Fatalf("second sweep changed %d", n)
	}
}

func TestStartStatusSweep(t *testing.T) {
	c := New(log.New(io.Discard, "", 0))
	_, _ = c.AddMovie(domain.Movie{Name: "Dune", TheatreName: "IMAX", TicketsAvailable: 0, Status: domain.StatusAvailable})

	s, err := c.StartStatusSweep(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = s.Shutdown() }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m, _ := c.Screening("Dune", ""); m.Status == domain.StatusSoldOut {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("sweep never ran")
}

func TestReviews(t *testing.T) {
	c := newTestCatalog(t)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	alice, _ := c.Register(aliceSignUp())
	bobSignUp := aliceSignUp()
	bobSignUp.Username, bobSignUp.Email, bobSignUp.FirstName = "bob", "bob@example.com", "Bob"
	bob, _ := c.Register(bobSignUp)

	first, err := c.AddReview(alice, "inception", domain.ReviewRequest{Rating: 5, Title: "Mind bending", Content: "Loved it"})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if first.MovieName != "Inception" || first.UserFullName != "Alice Liddell" {
		t.Fatalf("review = %+v", first)
	}
	if _, err := c.AddReview(bob, "Inception", domain.ReviewRequest{Rating: 4, Title: "Good", Content: "Long"}); err != nil {
		t.Fatalf("second review: %v", err)
	}
	if _, err := c.AddReview(alice, "Inception", domain.ReviewRequest{Rating: 1, Title: "again", Content: "x"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("repeat review err = %v", err)
	}
	if _, err := c.AddReview(alice, "Tenet", domain.ReviewRequest{Rating: 3, Title: "t", Content: "c"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown movie err = %v", err)
	}

	reviews, err := c.Reviews("Inception")
	if err != nil || len(reviews) != 2 || reviews[0].Username != "bob" {
		t.Fatalf("reviews = %+v, %v", reviews, err)
	}
	for _, m := range c.Movies() {
		if m.Name == "Inception" && (m.ReviewCount != 2 || m.Rating != 4.5) {
			t.Fatalf("screening stats = %+v", m)
		}
	}
	if got := c.UserReviews("alice"); len(got) != 1 {
		t.Fatalf("alice reviews = %+v", got)
	}

	for i := 1; i <= 3; i++ {
		r, err := c.MarkHelpful(first.ID)
		if err != nil || r.Helpful != i {
			t.Fatalf("helpful #%d = %+v, %v", i, r, err)
		}
	}
	if _, err := c.MarkHelpful("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown review err = %v", err)
	}
}

func seatRange(n int) []string {
	seats := make([]string, n)
	for i := range seats {
		seats[i] = fmt.Sprintf("E%d", i+1)
	}
	return seats
}

func BenchmarkBook(b *testing.B) {
	c := New(log.New(io.Discard, "", 0))
	_, _ = c.AddMovie(domain.Movie{Name: "Dune", TheatreName: "IMAX", TicketsAvailable: b.N + 1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seat := fmt.Sprintf("Z%d", i%999+1)
		_, _ = c.Book("bench", domain.BookingRequest{MovieName: "Dune", NoOfTickets: 1, SeatNumbers: []string{seat}})
	}
}
