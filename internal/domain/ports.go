package domain

import "context"

type CatalogRepository interface {
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, id int64) (Service, error)
	CreateService(ctx context.Context, s Service) (Service, error)
	UpdateService(ctx context.Context, s Service) (Service, error)
	DeleteService(ctx context.Context, id int64) error

	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int64) (Project, error)
	CreateProject(ctx context.Context, p Project) (Project, error)
	UpdateProject(ctx context.Context, p Project) (Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListTestimonials(ctx context.Context) ([]Testimonial, error)
	GetTestimonial(ctx context.Context, id int64) (Testimonial, error)
	CreateTestimonial(ctx context.Context, t Testimonial) (Testimonial, error)
	UpdateTestimonial(ctx context.Context, t Testimonial) (Testimonial, error)
	DeleteTestimonial(ctx context.Context, id int64) error
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, m ContactMessage) (ContactMessage, error)
	ListMessages(ctx context.Context) ([]ContactMessage, error)
	GetMessage(ctx context.Context, id int64) (ContactMessage, error)
	MarkMessageRead(ctx context.Context, id int64) (ContactMessage, error)
	DeleteMessage(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewScraper fetches the raw review objects published on an external review page.
type ReviewScraper interface {
	FetchReviews(ctx context.Context) ([]map[string]any, error)
}
