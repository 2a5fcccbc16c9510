package httpserver

import (
	"net/http"
	"testing"

	"github.com/Clark-Hu/moviebooking/internal/config"
	"github.com/Clark-Hu/moviebooking/internal/domain"
)

func TestReviewsFlow(t *testing.T) {
	srv, _ := buildTestServer(t)
	registerUser(t, srv, "alice")
	alice := loginAs(t, srv, "alice", userPassword)

	review := domain.ReviewRequest{Rating: 4, Title: "Dreams within dreams", Content: "Worth a second watch."}

	expectStatus(t, doRequest(t, srv, http.MethodPost, "/movies/Inception/reviews", "", review), http.StatusUnauthorized)

	rec := doRequest(t, srv, http.MethodPost, "/movies/Inception/reviews", alice, review)
	expectStatus(t, rec, http.StatusCreated)
	posted := decodeBody[domain.Review](t, rec)
	if posted.ID == "" || posted.Username != "alice" || posted.UserFullName != "Alice Tester" {
		t.Fatalf("posted = %+v", posted)
	}

	rec = doRequest(t, srv, http.MethodPost, "/movies/Inception/reviews", alice, review)
	expectStatus(t, rec, http.StatusConflict)

	rec = doRequest(t, srv, http.MethodPost, "/movies/Oppenheimer/reviews", alice, domain.ReviewRequest{Rating: 6, Title: "x", Content: "y"})
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := decodeBody[errorResponse](t, rec).Errors["rating"]; msg != "Rating must be at most 5" {
		t.Fatalf("rating message = %q", msg)
	}

	expectStatus(t, doRequest(t, srv, http.MethodPost, "/movies/Tenet/reviews", alice, review), http.StatusNotFound)

	rec = doRequest(t, srv, http.MethodGet, "/movies/Inception/reviews", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[[]domain.Review](t, rec); len(got) != 1 || got[0].ID != posted.ID {
		t.Fatalf("movie reviews = %+v", got)
	}

	rec = doRequest(t, srv, http.MethodGet, "/all", "", nil)
	for _, m := range decodeBody[[]domain.Movie](t, rec) {
		if m.Name == "Inception" && (m.ReviewCount != 1 || m.Rating != 4) {
			t.Fatalf("screening stats = %+v", m)
		}
	}

	rec = doRequest(t, srv, http.MethodGet, "/users/alice/reviews", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[[]domain.Review](t, rec); len(got) != 1 {
		t.Fatalf("user reviews = %+v", got)
	}
	expectStatus(t, doRequest(t, srv, http.MethodGet, "/users/ghost/reviews", "", nil), http.StatusNotFound)

	for want := 1; want <= 2; want++ {
		rec = doRequest(t, srv, http.MethodPut, "/reviews/"+posted.ID+"/helpful", "", nil)
		expectStatus(t, rec, http.StatusOK)
		if got := decodeBody[domain.Review](t, rec).Helpful; got != want {
			t.Fatalf("helpful = %d, want %d", got, want)
		}
	}
	expectStatus(t, doRequest(t, srv, http.MethodPut, "/reviews/missing/helpful", "", nil), http.StatusNotFound)
}

func TestHelpfulRequiresAuth(t *testing.T) {
	srv, _ := buildTestServer(t, func(cfg *config.Mock) { cfg.HelpfulRequiresAuth = true })
	registerUser(t, srv, "alice")
	alice := loginAs(t, srv, "alice", userPassword)

	rec := doRequest(t, srv, http.MethodPost, "/movies/Inception/reviews", alice,
		domain.ReviewRequest{Rating: 5, Title: "Classic", Content: "Still holds up."})
	expectStatus(t, rec, http.StatusCreated)
	id := decodeBody[domain.Review](t, rec).ID

	expectStatus(t, doRequest(t, srv, http.MethodPut, "/reviews/"+id+"/helpful", "", nil), http.StatusUnauthorized)
	expectStatus(t, doRequest(t, srv, http.MethodPut, "/reviews/"+id+"/helpful", alice, nil), http.StatusOK)
}

func FuzzHandleBookTickets(f *testing.F) {
	seeds := []string{
		`{"noOfTickets":1,"seatNumber":["A1"]}`,
		`{"noOfTickets":-3,"seatNumber":[]}`,
		`{"noOfTickets":2,"seatNumber":["A1","A1"]}`,
		`{"noOfTickets":"two"}`,
		`{"seatNumber":[""]}`,
		`[]`,
		``,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	srv, _ := buildTestServer(f)
	token := loginAs(f, srv, "admin", adminPassword)

	f.Fuzz(func(t *testing.T, body string) {
		rec := doRequest(t, srv, http.MethodPost, "/Inception/add", token, body)
		if rec.Code >= http.StatusInternalServerError {
			t.Fatalf("status %d for body %q: %s", rec.Code, body, rec.Body.String())
		}
	})
}
