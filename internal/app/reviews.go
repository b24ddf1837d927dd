package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"electrosite/internal/domain"
)

const publicReviewRole = "Customer"

// PublicReviewInput is a review submitted from the landing page.
type PublicReviewInput struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Email   *string  `json:"email" validate:"omitempty,email,max=255"`
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Content string   `json:"content" validate:"required,max=5000"`
}

// PublicReviewService merges the cached external reviews with the testimonials
// stored in the database.
type PublicReviewService struct {
	gate  *ReviewGate
	repo  domain.CatalogRepository
	admin *AdminService
	now   func() time.Time
}

func NewPublicReviewService(g *ReviewGate, r domain.CatalogRepository, admin *AdminService) *PublicReviewService {
	return &PublicReviewService{gate: g, repo: r, admin: admin, now: time.Now}
}

// List returns external reviews first, then internal testimonials. A store
// failure fails the whole call; external reviews never do.
func (s *PublicReviewService) List(ctx context.Context) ([]domain.Review, Freshness, error) {
	internal, err := s.repo.ListTestimonials(ctx)
	if err != nil {
		return nil, Freshness{}, fmt.Errorf("list testimonials: %w", err)
	}
	external, fresh := s.gate.Reviews(ctx)

	now := s.now()
	out := make([]domain.Review, 0, len(external)+len(internal))
	out = append(out, external...)
	for _, t := range internal {
		out = append(out, testimonialReview(t, now))
	}
	return out, fresh, nil
}

// Submit stores a landing page review as a testimonial.
func (s *PublicReviewService) Submit(ctx context.Context, in PublicReviewInput) (domain.Testimonial, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Content = strings.TrimSpace(in.Content)
	in.Email = trimPtr(in.Email)
	if err := validateStruct(in); err != nil {
		return domain.Testimonial{}, err
	}
	return s.admin.CreateTestimonial(ctx, TestimonialInput{
		Name:    in.Name,
		Role:    publicReviewRole,
		Email:   in.Email,
		Content: in.Content,
		Rating:  in.Rating,
	})
}

func testimonialReview(t domain.Testimonial, now time.Time) domain.Review {
	date := relativeTime(t.CreatedAt, now)
	return domain.Review{
		ID:      t.ID,
		Name:    t.Name,
		Role:    t.Role,
		Content: t.Content,
		Rating:  t.Rating,
		Date:    &date,
		Source:  domain.SourceWebsite,
		Avatar:  t.Avatar,
	}
}
