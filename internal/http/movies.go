package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.catalog.Movies())
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	movies, err := s.catalog.Search(name)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	var movie domain.Movie
	if err := decodeJSONBody(w, r, &movie); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	movie.Name = strings.TrimSpace(movie.Name)
	movie.TheatreName = strings.TrimSpace(movie.TheatreName)

	form := validate.MovieFormFrom(movie)
	if res := validate.Check(form); !res.Valid {
		s.respondInvalid(w, res, form)
		return
	}

	created, err := s.catalog.AddMovie(movie)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

// handleUpdateMovie validates the screening as it would look after the
// patch, then applies the patch.
func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var patch domain.Movie
	if err := decodeJSONBody(w, r, &patch); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	current, err := s.catalog.Screening(name, patch.TheatreName)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	merged := current
	if err := copier.CopyWithOption(&merged, &patch, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		s.logger.Printf("merge movie patch: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to update movie", nil)
		return
	}
	form := validate.MovieFormFrom(merged)
	if res := validate.Check(form); !res.Valid {
		s.respondInvalid(w, res, form)
		return
	}

	patch.TheatreName = current.TheatreName
	updated, err := s.catalog.UpdateMovie(name, patch)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	removed, err := s.catalog.DeleteMovie(name)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Movie %s deleted successfully from %d theatre(s)", name, removed),
	})
}

func (s *Server) handleBookTickets(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var req domain.BookingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.MovieName != "" && !strings.EqualFold(req.MovieName, name) {
		s.respondError(w, http.StatusBadRequest, "Movie name does not match the request path", nil)
		return
	}
	req.MovieName = name

	user, _ := userFrom(r.Context())
	ticket, err := s.catalog.Book(user.Username, req)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, domain.BookingConfirmation{
		Message: fmt.Sprintf("Ticket booked successfully for %s at %s, seats %s",
			ticket.MovieName, ticket.TheatreName, strings.Join(ticket.SeatNumbers, ", ")),
		Ticket: &ticket,
	})
}

func (s *Server) handleBookedTickets(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	tickets, err := s.catalog.Tickets(name)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tickets)
}

func (s *Server) handleUpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	ticketID, err := pathParam(r, "ticketId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	status, err := s.catalog.RefreshTicketStatus(name, ticketID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Ticket status updated: %s", status)})
}
