package models

import "time"

// ReviewDB represents a review record in the database.
// At most one review exists per (book, user) pair; the table enforces
// this with a unique constraint.
type ReviewDB struct {
	ReviewID   int64     `db:"review_id"`
	BookID     int64     `db:"book_id"`
	UserID     int64     `db:"user_id"`
	ReviewText string    `db:"review_text"`
	Rating     int       `db:"rating"`
	CreatedAt  time.Time `db:"created_at"`
}

// ReviewRequest represents the JSON body for submitting a review
// swagger:model ReviewRequest
type ReviewRequest struct {
	// Integer rating in [1,5]
	// required: true
	// example: 4
	Rating float64 `json:"rating"`

	// Free-text review body
	// example: A sweeping, readable history.
	ReviewText string `json:"review_text"`
}

// ReviewResponse is the wire representation of a review
// swagger:model ReviewResponse
type ReviewResponse struct {
	// Review ID
	// example: 1
	ID int64 `json:"id"`

	// Book ID
	// example: 1
	BookID int64 `json:"book_id"`

	// Author user ID
	// example: 1
	UserID int64 `json:"user_id"`

	// Rating
	// example: 4
	Rating int `json:"rating"`

	// Review body
	ReviewText string `json:"review_text"`
}

// NewReviewResponse maps a database row to its wire representation.
func NewReviewResponse(rv *ReviewDB) ReviewResponse {
	return ReviewResponse{
		ID:         rv.ReviewID,
		BookID:     rv.BookID,
		UserID:     rv.UserID,
		Rating:     rv.Rating,
		ReviewText: rv.ReviewText,
	}
}

// ReviewCreatedEvent is published to the event stream after a review
// is persisted.
type ReviewCreatedEvent struct {
	ReviewID  int64     `json:"review_id"`
	BookID    int64     `json:"book_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
