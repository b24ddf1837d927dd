package app

import (
	"context"
	"strings"

	"electrosite/internal/domain"
)

// ServiceInput is the admin payload for creating or replacing a service.
type ServiceInput struct {
	Title       string   `json:"title" yaml:"title" validate:"required,max=200"`
	Description string   `json:"description" yaml:"description" validate:"required,max=5000"`
	Icon        *string  `json:"icon" yaml:"icon" validate:"omitempty,max=100"`
	Features    []string `json:"features" yaml:"features" validate:"max=50,dive,max=200"`
}

type ProjectInput struct {
	Title       string  `json:"title" yaml:"title" validate:"required,max=200"`
	Description string  `json:"description" yaml:"description" validate:"required,max=5000"`
	Category    string  `json:"category" yaml:"category" validate:"required,max=100"`
	ImageURL    *string `json:"imageUrl" yaml:"imageUrl" validate:"omitempty,url,max=500"`
}

type TestimonialInput struct {
	Name    string   `json:"name" yaml:"name" validate:"required,max=100"`
	Role    string   `json:"role" yaml:"role" validate:"max=100"`
	Email   *string  `json:"email" yaml:"email" validate:"omitempty,email,max=255"`
	Content string   `json:"content" yaml:"content" validate:"required,max=5000"`
	Rating  *float64 `json:"rating" yaml:"rating" validate:"required,gte=0,lte=5"`
	Avatar  *string  `json:"avatar" yaml:"avatar" validate:"omitempty,url,max=500"`
}

// AdminService owns every write to the catalog and the inbox. Each write evicts
// the list key and the item key it touched so readers never see stale data.
type AdminService struct {
	repo     domain.CatalogRepository
	messages domain.MessageRepository
	cache    domain.Cache
}

func NewAdminService(r domain.CatalogRepository, m domain.MessageRepository, cache domain.Cache) *AdminService {
	return &AdminService{repo: r, messages: m, cache: cache}
}

/********** services **********/

func (s *AdminService) CreateService(ctx context.Context, in ServiceInput) (domain.Service, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return domain.Service{}, err
	}
	out, err := s.repo.CreateService(ctx, in.toService(0))
	if err != nil {
		return domain.Service{}, err
	}
	s.invalidate(ctx, keyServices)
	return out, nil
}

func (s *AdminService) UpdateService(ctx context.Context, id int64, in ServiceInput) (domain.Service, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return domain.Service{}, err
	}
	out, err := s.repo.UpdateService(ctx, in.toService(id))
	if err != nil {
		return domain.Service{}, err
	}
	s.invalidate(ctx, keyServices, keyService(id))
	return out, nil
}

func (s *AdminService) DeleteService(ctx context.Context, id int64) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyServices, keyService(id))
	return nil
}

/********** projects **********/

func (s *AdminService) CreateProject(ctx context.Context, in ProjectInput) (domain.Project, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return domain.Project{}, err
	}
	out, err := s.repo.CreateProject(ctx, in.toProject(0))
	if err != nil {
		return domain.Project{}, err
	}
	s.invalidate(ctx, keyProjects)
	return out, nil
}

func (s *AdminService) UpdateProject(ctx context.Context, id int64, in ProjectInput) (domain.Project, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return domain.Project{}, err
	}
	out, err := s.repo.UpdateProject(ctx, in.toProject(id))
	if err != nil {
		return domain.Project{}, err
	}
	s.invalidate(ctx, keyProjects, keyProject(id))
	return out, nil
}

func (s *AdminService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyProjects, keyProject(id))
	return nil
}

/********** testimonials **********/

func (s *AdminService) CreateTestimonial(ctx context.Context, in TestimonialInput) (domain.Testimonial, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return domain.Testimonial{}, err
	}
	out, err := s.repo.CreateTestimonial(ctx, in.toTestimonial(0))
	if err != nil {
		return domain.Testimonial{}, err
	}
	s.invalidate(ctx, keyTestimonials)
	return out, nil
}

func (s *AdminService) UpdateTestimonial(ctx context.Context, id int64, in TestimonialInput) (domain.Testimonial, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return domain.Testimonial{}, err
	}
	out, err := s.repo.UpdateTestimonial(ctx, in.toTestimonial(id))
	if err != nil {
		return domain.Testimonial{}, err
	}
	s.invalidate(ctx, keyTestimonials, keyTestimonial(id))
	return out, nil
}

func (s *AdminService) DeleteTestimonial(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyTestimonials, keyTestimonial(id))
	return nil
}

/********** messages (never cached) **********/

func (s *AdminService) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.messages.ListMessages(ctx)
}

func (s *AdminService) GetMessage(ctx context.Context, id int64) (domain.ContactMessage, error) {
	return s.messages.GetMessage(ctx, id)
}

func (s *AdminService) MarkMessageRead(ctx context.Context, id int64) (domain.ContactMessage, error) {
	return s.messages.MarkMessageRead(ctx, id)
}

func (s *AdminService) DeleteMessage(ctx context.Context, id int64) error {
	return s.messages.DeleteMessage(ctx, id)
}

// InvalidateLists drops every cached list. Used after bulk loads.
func (s *AdminService) InvalidateLists(ctx context.Context) {
	s.invalidate(ctx, keyServices, keyProjects, keyTestimonials)
}

func (s *AdminService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		_ = s.cache.Del(ctx, k)
	}
}

/********** input mapping **********/

func (in ServiceInput) normalized() ServiceInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Icon = trimPtr(in.Icon)
	feats := make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		if t := strings.TrimSpace(f); t != "" {
			feats = append(feats, t)
		}
	}
	in.Features = feats
	return in
}

func (in ServiceInput) toService(id int64) domain.Service {
	return domain.Service{ID: id, Title: in.Title, Description: in.Description, Icon: in.Icon, Features: in.Features}
}

func (in ProjectInput) normalized() ProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = trimPtr(in.ImageURL)
	return in
}

func (in ProjectInput) toProject(id int64) domain.Project {
	return domain.Project{ID: id, Title: in.Title, Description: in.Description, Category: in.Category, ImageURL: in.ImageURL}
}

func (in TestimonialInput) normalized() TestimonialInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Email = trimPtr(in.Email)
	in.Content = strings.TrimSpace(in.Content)
	in.Avatar = trimPtr(in.Avatar)
	return in
}

// toTestimonial expects a validated input; Rating is non-nil.
func (in TestimonialInput) toTestimonial(id int64) domain.Testimonial {
	return domain.Testimonial{
		ID:      id,
		Name:    in.Name,
		Role:    in.Role,
		Email:   in.Email,
		Content: in.Content,
		Rating:  *in.Rating,
		Avatar:  in.Avatar,
	}
}
