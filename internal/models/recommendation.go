package models

// RecommendationsResponse carries genre-based book title recommendations
// swagger:model RecommendationsResponse
type RecommendationsResponse struct {
	// Ordered list of recommended titles
	Recommendations []string `json:"recommendations"`
}
