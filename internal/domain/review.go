package domain

import "time"

// Review is a user's review of a movie.
type Review struct {
	ID           string    `json:"reviewId"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	UserFullName string    `json:"userFullName"`
	MovieName    string    `json:"movieName"`
	Rating       float64   `json:"rating"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedDate  time.Time `json:"createdDate"`
	Helpful      int       `json:"helpful"`
}

// ReviewRequest is the payload for posting a review.
type ReviewRequest struct {
	Rating  float64 `json:"rating"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}
