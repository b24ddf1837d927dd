package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"electrosite/internal/domain"
)

// Cache keys shared by the read and write sides.
const (
	keyServices     = "services:all"
	keyProjects     = "projects:all"
	keyTestimonials = "testimonials:all"
)

func keyService(id int64) string     { return fmt.Sprintf("service:%d", id) }
func keyProject(id int64) string     { return fmt.Sprintf("project:%d", id) }
func keyTestimonial(id int64) string { return fmt.Sprintf("testimonial:%d", id) }

// maxCachedBytes keeps oversized payloads out of redis.
const maxCachedBytes = 1_000_000

type QueryService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return cached(ctx, s, keyServices, s.repo.ListServices)
}

func (s *QueryService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return cached(ctx, s, keyProjects, s.repo.ListProjects)
}

func (s *QueryService) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return cached(ctx, s, keyTestimonials, s.repo.ListTestimonials)
}

func (s *QueryService) GetService(ctx context.Context, id int64) (domain.Service, error) {
	return cached(ctx, s, keyService(id), func(ctx context.Context) (domain.Service, error) {
		return s.repo.GetService(ctx, id)
	})
}

func (s *QueryService) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	return cached(ctx, s, keyProject(id), func(ctx context.Context) (domain.Project, error) {
		return s.repo.GetProject(ctx, id)
	})
}

func (s *QueryService) GetTestimonial(ctx context.Context, id int64) (domain.Testimonial, error) {
	return cached(ctx, s, keyTestimonial(id), func(ctx context.Context) (domain.Testimonial, error) {
		return s.repo.GetTestimonial(ctx, id)
	})
}

// cached is cache-aside: serve from cache when present, otherwise load from the
// repo and populate. Cache errors never fail the read.
func cached[T any](ctx context.Context, s *QueryService, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if s.cache != nil {
		if b, _ := json.Marshal(v); len(b) < maxCachedBytes {
			_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
		}
	}
	return v, nil
}
