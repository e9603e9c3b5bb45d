package models

// RatingNotAvailable is reported as the average rating of a book with
// zero reviews, distinguishing "no data" from any numeric value.
const RatingNotAvailable = "NA"

// BookSummaryResponse carries the stored summary plus the aggregated
// rating. AverageRating is a number rounded to 2 decimal places, or the
// string "NA" when the book has no reviews.
// swagger:model BookSummaryResponse
type BookSummaryResponse struct {
	// Stored summary, empty until generated
	Summary string `json:"summary"`

	// Average rating or "NA"
	// example: 4.00
	AverageRating interface{} `json:"average_rating"`
}

// NewBookSummaryResponse builds the response, mapping a nil average to
// the "NA" sentinel.
func NewBookSummaryResponse(summary string, avg *float64) BookSummaryResponse {
	resp := BookSummaryResponse{Summary: summary, AverageRating: RatingNotAvailable}
	if avg != nil {
		resp.AverageRating = *avg
	}
	return resp
}

// GenerateSummaryRequest represents the JSON body for summary generation
// swagger:model GenerateSummaryRequest
type GenerateSummaryRequest struct {
	// Book content to summarize
	// required: true
	Content string `json:"content"`
}

// GenerateSummaryResponse carries the freshly generated summary
// swagger:model GenerateSummaryResponse
type GenerateSummaryResponse struct {
	// Generated summary
	Summary string `json:"summary"`
}
