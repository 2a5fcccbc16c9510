package gateway

import (
	"context"
	"net/http"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// messageResponse is the generic acknowledgement body.
type messageResponse struct {
	Message string `json:"message"`
}

// ListMovies returns every screening. Names may repeat across theatres.
func (c *Client) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	err := c.send(ctx, call{op: "list movies", method: http.MethodGet, segments: []string{"all"}, out: &movies})
	return movies, err
}

// SearchMovies returns the screenings whose name matches name.
func (c *Client) SearchMovies(ctx context.Context, name string) ([]domain.Movie, error) {
	var movies []domain.Movie
	err := c.send(ctx, call{
		op:       "search movies",
		method:   http.MethodGet,
		segments: []string{"movies", "search", name},
		out:      &movies,
	})
	return movies, err
}

// AddMovie creates a screening. Admin only.
func (c *Client) AddMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	var created domain.Movie
	err := c.send(ctx, call{op: "add movie", method: http.MethodPost, segments: []string{"addMovie"}, body: movie, out: &created})
	return created, err
}

// UpdateMovie replaces the editable fields of the screenings named name.
// Admin only.
func (c *Client) UpdateMovie(ctx context.Context, name string, movie domain.Movie) (domain.Movie, error) {
	var updated domain.Movie
	err := c.send(ctx, call{
		op:       "update movie",
		method:   http.MethodPut,
		segments: []string{name, "update"},
		body:     movie,
		out:      &updated,
	})
	return updated, err
}

// DeleteMovie removes every screening named name. Admin only.
func (c *Client) DeleteMovie(ctx context.Context, name string) (string, error) {
	var resp messageResponse
	err := c.send(ctx, call{op: "delete movie", method: http.MethodDelete, segments: []string{name, "delete"}, out: &resp})
	return resp.Message, err
}

// BookTickets books seats for the logged in user.
func (c *Client) BookTickets(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error) {
	var confirmation domain.BookingConfirmation
	err := c.send(ctx, call{
		op:       "book tickets",
		method:   http.MethodPost,
		segments: []string{req.MovieName, "add"},
		body:     req,
		out:      &confirmation,
	})
	return confirmation, err
}

// BookedTickets lists the tickets sold for a movie. Admin only.
func (c *Client) BookedTickets(ctx context.Context, movieName string) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := c.send(ctx, call{
		op:       "booked tickets",
		method:   http.MethodGet,
		segments: []string{"userTickets", movieName},
		out:      &tickets,
	})
	return tickets, err
}

// UpdateTicketStatus makes the backend recompute the status of the screening
// the ticket belongs to. Admin only.
func (c *Client) UpdateTicketStatus(ctx context.Context, movieName, ticketID string) (string, error) {
	var resp messageResponse
	err := c.send(ctx, call{
		op:       "update ticket status",
		method:   http.MethodPut,
		segments: []string{movieName, "update", ticketID},
		out:      &resp,
	})
	return resp.Message, err
}

// ResetPassword sets a new password for username.
func (c *Client) ResetPassword(ctx context.Context, username string, creds domain.Credentials) (string, error) {
	var resp messageResponse
	err := c.send(ctx, call{
		op:       "reset password",
		method:   http.MethodPut,
		segments: []string{username, "forgot"},
		body:     creds,
		out:      &resp,
	})
	return resp.Message, err
}
