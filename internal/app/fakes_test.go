package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"electrosite/internal/domain"
)

// ---- fakes ----

// fakeRepo is an in-memory CatalogRepository + MessageRepository.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	now    time.Time

	services     map[int64]domain.Service
	projects     map[int64]domain.Project
	testimonials map[int64]domain.Testimonial
	messages     map[int64]domain.ContactMessage

	listErr error // returned by every List* call when set
	calls   map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		now:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		services:     map[int64]domain.Service{},
		projects:     map[int64]domain.Project{},
		testimonials: map[int64]domain.Testimonial{},
		messages:     map[int64]domain.ContactMessage{},
		calls:        map[string]int{},
	}
}

func (f *fakeRepo) id(op string) int64 {
	f.calls[op]++
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func sortedValues[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func (f *fakeRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListServices"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return sortedValues(f.services), nil
}

func (f *fakeRepo) GetService(ctx context.Context, id int64) (domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetService"]++
	s, ok := f.services[id]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) CreateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.id("CreateService")
	s.CreatedAt = f.now
	f.services[s.ID] = s
	return s, nil
}

func (f *fakeRepo) UpdateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.services[s.ID]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	s.CreatedAt = old.CreatedAt
	f.services[s.ID] = s
	return s, nil
}

func (f *fakeRepo) DeleteService(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.services, id)
	return nil
}

func (f *fakeRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return sortedValues(f.projects), nil
}

func (f *fakeRepo) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id("CreateProject")
	p.CreatedAt = f.now
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeRepo) UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.projects[p.ID]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeRepo) DeleteProject(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeRepo) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListTestimonials"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return sortedValues(f.testimonials), nil
}

func (f *fakeRepo) GetTestimonial(ctx context.Context, id int64) (domain.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.testimonials[id]
	if !ok {
		return domain.Testimonial{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.id("CreateTestimonial")
	if t.CreatedAt.IsZero() {
		t.CreatedAt = f.now
	}
	f.testimonials[t.ID] = t
	return t, nil
}

func (f *fakeRepo) UpdateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.testimonials[t.ID]
	if !ok {
		return domain.Testimonial{}, domain.ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	f.testimonials[t.ID] = t
	return t, nil
}

func (f *fakeRepo) DeleteTestimonial(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.testimonials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.testimonials, id)
	return nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id("CreateMessage")
	m.CreatedAt = f.now
	f.messages[m.ID] = m
	return m, nil
}

func (f *fakeRepo) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return sortedValues(f.messages), nil
}

func (f *fakeRepo) GetMessage(ctx context.Context, id int64) (domain.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return domain.ContactMessage{}, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) MarkMessageRead(ctx context.Context, id int64) (domain.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return domain.ContactMessage{}, domain.ErrNotFound
	}
	m.Read = true
	f.messages[id] = m
	return m, nil
}

func (f *fakeRepo) DeleteMessage(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.messages, id)
	return nil
}

// fakeCache stores JSON so cached values never alias the caller's memory.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	dels    []string
	failGet bool
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("cache down")
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

func ptr[T any](v T) *T { return &v }
