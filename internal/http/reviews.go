package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

func (s *Server) handleMovieReviews(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	reviews, err := s.catalog.Reviews(name)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleUserReviews(w http.ResponseWriter, r *http.Request) {
	username, err := pathParam(r, "username")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if _, ok := s.catalog.User(username); !ok {
		s.respondError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	s.respondJSON(w, http.StatusOK, s.catalog.UserReviews(username))
}

func (s *Server) handlePostReview(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	var req domain.ReviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	form := validate.ReviewForm{Rating: req.Rating, Title: req.Title, Content: req.Content}
	if res := validate.Check(form); !res.Valid {
		s.respondInvalid(w, res, form)
		return
	}

	user, _ := userFrom(r.Context())
	review, err := s.catalog.AddReview(user, name, form.Request())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, review)
}

func (s *Server) handleMarkHelpful(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	review, err := s.catalog.MarkHelpful(id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, review)
}
