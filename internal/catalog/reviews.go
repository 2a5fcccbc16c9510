package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// Reviews lists the reviews of movieName, newest first.
func (c *Catalog) Reviews(movieName string) ([]domain.Review, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasMovieLocked(movieName) {
		return nil, fail("movie reviews", domain.ErrNotFound, "Movie not found")
	}
	return c.collectLocked(func(r *domain.Review) bool { return strings.EqualFold(r.MovieName, movieName) }), nil
}

// UserReviews lists the reviews written by username, newest first.
func (c *Catalog) UserReviews(username string) []domain.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collectLocked(func(r *domain.Review) bool { return strings.EqualFold(r.Username, username) })
}

func (c *Catalog) collectLocked(match func(*domain.Review) bool) []domain.Review {
	out := []domain.Review{}
	for _, r := range c.reviews {
		if match(r) {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
	return out
}

// AddReview stores a review by user. A user reviews a movie at most once.
// The review count and average rating of every screening of the movie are
// refreshed.
func (c *Catalog) AddReview(user domain.User, movieName string, req domain.ReviewRequest) (domain.Review, error) {
	const op = "post review"

	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findLocked(movieName, "")
	if m == nil {
		return domain.Review{}, fail(op, domain.ErrNotFound, "Movie not found")
	}
	for _, r := range c.reviews {
		if strings.EqualFold(r.MovieName, m.Name) && r.UserID == user.ID {
			return domain.Review{}, fail(op, domain.ErrConflict, "You have already reviewed this movie")
		}
	}

	review := &domain.Review{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		UserFullName: strings.TrimSpace(user.FirstName + " " + user.LastName),
		MovieName:    m.Name,
		Rating:       req.Rating,
		Title:        strings.TrimSpace(req.Title),
		Content:      strings.TrimSpace(req.Content),
		CreatedDate:  c.now().UTC(),
	}
	c.reviews = append(c.reviews, review)

	count, avg := c.reviewStatsLocked(m.Name)
	for _, s := range c.movies {
		if strings.EqualFold(s.Name, m.Name) {
			s.ReviewCount, s.Rating = count, avg
		}
	}
	return *review, nil
}

// MarkHelpful increments the helpful count of a review. Repeated calls
// count again.
func (c *Catalog) MarkHelpful(reviewID string) (domain.Review, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.reviews {
		if r.ID == reviewID {
			r.Helpful++
			return *r, nil
		}
	}
	return domain.Review{}, fail("mark helpful", domain.ErrNotFound, "Review not found")
}

// reviewStatsLocked returns the review count and the average rating of a
// movie rounded to one decimal.
func (c *Catalog) reviewStatsLocked(movieName string) (int, float64) {
	var (
		count int
		sum   float64
	)
	for _, r := range c.reviews {
		if strings.EqualFold(r.MovieName, movieName) {
			count++
			sum += r.Rating
		}
	}
	if count == 0 {
		return 0, 0
	}
	return count, math.Round(sum/float64(count)*10) / 10
}
