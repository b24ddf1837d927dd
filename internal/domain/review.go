package domain

// Review is a customer testimonial as shown on the landing page. Internal reviews
// come from the testimonials table; external ones are resolved from a review
// platform and only ever live in process memory.
type Review struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Rating  float64 `json:"rating"`
	Date    *string `json:"date,omitempty"`
	Source  string  `json:"source"`
	Avatar  *string `json:"avatar,omitempty"`
}

const (
	SourceWebsite = "website"
	SourceGoogle  = "Google"

	MinRating = 0.0
	MaxRating = 5.0
)

// Valid reports whether r can be shown: non-empty content and a rating in [0,5].
func (r Review) Valid() bool {
	return r.Content != "" && r.Rating >= MinRating && r.Rating <= MaxRating
}
