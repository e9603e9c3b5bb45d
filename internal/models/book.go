package models

import "time"

// BookDB represents a book record in the database.
type BookDB struct {
	BookID        int64     `db:"book_id"`
	Title         string    `db:"title"`
	Author        string    `db:"author"`
	Genre         Genre     `db:"genre"`
	YearPublished int       `db:"year_published"`
	Summary       string    `db:"summary"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// BookRequest represents the JSON body for creating or updating a book
// swagger:model BookRequest
type BookRequest struct {
	// Title
	// required: true
	// example: The Silk Roads
	Title string `json:"title"`

	// Author
	// required: true
	// example: Peter Frankopan
	Author string `json:"author"`

	// Genre
	// required: true
	// example: history
	Genre string `json:"genre"`

	// Publication year
	// required: true
	// example: 2015
	YearPublished int `json:"year_published"`
}

// BookResponse is the wire representation of a book
// swagger:model BookResponse
type BookResponse struct {
	// Book ID
	// example: 1
	ID int64 `json:"id"`

	// Title
	// example: The Silk Roads
	Title string `json:"title"`

	// Author
	// example: Peter Frankopan
	Author string `json:"author"`

	// Genre
	// example: history
	Genre Genre `json:"genre"`

	// Publication year
	// example: 2015
	YearPublished int `json:"year_published"`

	// Generated summary, empty until generated
	Summary string `json:"summary"`
}

// NewBookResponse maps a database row to its wire representation.
func NewBookResponse(b *BookDB) BookResponse {
	return BookResponse{
		ID:            b.BookID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: b.YearPublished,
		Summary:       b.Summary,
	}
}
