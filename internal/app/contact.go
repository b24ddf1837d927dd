package app

import (
	"context"
	"strings"

	"electrosite/internal/domain"
)

// ContactInput is the landing page contact form.
type ContactInput struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Service *string `json:"service" validate:"omitempty,max=64"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type ContactService struct {
	repo domain.MessageRepository
}

func NewContactService(r domain.MessageRepository) *ContactService {
	return &ContactService{repo: r}
}

// Submit validates and stores a contact message. The stored record, including its
// server-assigned id, is returned.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = trimPtr(in.Phone)
	in.Service = trimPtr(in.Service)
	in.Message = strings.TrimSpace(in.Message)

	if err := validateStruct(in); err != nil {
		return domain.ContactMessage{}, err
	}
	return s.repo.CreateMessage(ctx, domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Service: in.Service,
		Message: in.Message,
	})
}
