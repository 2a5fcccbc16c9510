package gateway

import (
	"context"
	"net/http"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// MovieReviews lists the reviews of a movie, newest first.
func (c *Client) MovieReviews(ctx context.Context, movieName string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := c.send(ctx, call{
		op:       "movie reviews",
		method:   http.MethodGet,
		segments: []string{"movies", movieName, "reviews"},
		out:      &reviews,
	})
	return reviews, err
}

// UserReviews lists the reviews written by username.
func (c *Client) UserReviews(ctx context.Context, username string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := c.send(ctx, call{
		op:       "user reviews",
		method:   http.MethodGet,
		segments: []string{"users", username, "reviews"},
		out:      &reviews,
	})
	return reviews, err
}

// PostReview adds a review by the logged in user.
func (c *Client) PostReview(ctx context.Context, movieName string, req domain.ReviewRequest) (domain.Review, error) {
	var review domain.Review
	err := c.send(ctx, call{
		op:       "post review",
		method:   http.MethodPost,
		segments: []string{"movies", movieName, "reviews"},
		body:     req,
		out:      &review,
	})
	return review, err
}

// MarkHelpful increments a review's helpful count and returns the review.
// Repeated calls count again.
func (c *Client) MarkHelpful(ctx context.Context, reviewID string) (domain.Review, error) {
	var review domain.Review
	err := c.send(ctx, call{
		op:       "mark helpful",
		method:   http.MethodPut,
		segments: []string{"reviews", reviewID, "helpful"},
		out:      &review,
	})
	return review, err
}
