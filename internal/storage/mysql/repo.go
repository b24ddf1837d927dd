package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"electrosite/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

/********** services **********/

func scanService(s rowScanner) (domain.Service, error) {
	var sv domain.Service
	var icon sql.NullString
	var features []byte
	if err := s.Scan(&sv.ID, &sv.Title, &sv.Description, &icon, &features, &sv.CreatedAt); err != nil {
		return domain.Service{}, err
	}
	sv.Icon = nullStr(icon)
	if len(features) > 0 {
		if err := json.Unmarshal(features, &sv.Features); err != nil {
			return domain.Service{}, fmt.Errorf("decode features for service %d: %w", sv.ID, err)
		}
	}
	if sv.Features == nil {
		sv.Features = []string{}
	}
	return sv, nil
}

func (r *Repo) ListServices(ctx context.Context) ([]domain.Service, error) {
	return list(ctx, r.db, listServicesSQL, scanService)
}

func (r *Repo) GetService(ctx context.Context, id int64) (domain.Service, error) {
	return get(ctx, r.db, getServiceSQL, id, scanService)
}

func (r *Repo) CreateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	feats, err := marshalFeatures(s.Features)
	if err != nil {
		return domain.Service{}, err
	}
	id, err := r.insert(ctx, insertServiceSQL, s.Title, s.Description, valStr(s.Icon), feats)
	if err != nil {
		return domain.Service{}, err
	}
	return r.GetService(ctx, id)
}

func (r *Repo) UpdateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	feats, err := marshalFeatures(s.Features)
	if err != nil {
		return domain.Service{}, err
	}
	if _, err := r.db.ExecContext(ctx, updateServiceSQL, s.Title, s.Description, valStr(s.Icon), feats, s.ID); err != nil {
		return domain.Service{}, err
	}
	// MySQL reports zero affected rows for no-op updates, so existence is checked by reading back
	return r.GetService(ctx, s.ID)
}

func (r *Repo) DeleteService(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteServiceSQL, id)
}

func marshalFeatures(f []string) (string, error) {
	if f == nil {
		f = []string{}
	}
	b, err := json.Marshal(f)
	return string(b), err
}

/********** projects **********/

func scanProject(s rowScanner) (domain.Project, error) {
	var p domain.Project
	var img sql.NullString
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &img, &p.CreatedAt); err != nil {
		return domain.Project{}, err
	}
	p.ImageURL = nullStr(img)
	return p, nil
}

func (r *Repo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return list(ctx, r.db, listProjectsSQL, scanProject)
}

func (r *Repo) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	return get(ctx, r.db, getProjectSQL, id, scanProject)
}

func (r *Repo) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	id, err := r.insert(ctx, insertProjectSQL, p.Title, p.Description, p.Category, valStr(p.ImageURL))
	if err != nil {
		return domain.Project{}, err
	}
	return r.GetProject(ctx, id)
}

func (r *Repo) UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if _, err := r.db.ExecContext(ctx, updateProjectSQL, p.Title, p.Description, p.Category, valStr(p.ImageURL), p.ID); err != nil {
		return domain.Project{}, err
	}
	return r.GetProject(ctx, p.ID)
}

func (r *Repo) DeleteProject(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteProjectSQL, id)
}

/********** testimonials **********/

func scanTestimonial(s rowScanner) (domain.Testimonial, error) {
	var t domain.Testimonial
	var email, avatar sql.NullString
	if err := s.Scan(&t.ID, &t.Name, &t.Role, &email, &t.Content, &t.Rating, &avatar, &t.CreatedAt); err != nil {
		return domain.Testimonial{}, err
	}
	t.Email = nullStr(email)
	t.Avatar = nullStr(avatar)
	return t, nil
}

func (r *Repo) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return list(ctx, r.db, listTestimonialsSQL, scanTestimonial)
}

func (r *Repo) GetTestimonial(ctx context.Context, id int64) (domain.Testimonial, error) {
	return get(ctx, r.db, getTestimonialSQL, id, scanTestimonial)
}

func (r *Repo) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	id, err := r.insert(ctx, insertTestimonialSQL, t.Name, t.Role, valStr(t.Email), t.Content, t.Rating, valStr(t.Avatar))
	if err != nil {
		return domain.Testimonial{}, err
	}
	return r.GetTestimonial(ctx, id)
}

func (r *Repo) UpdateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	if _, err := r.db.ExecContext(ctx, updateTestimonialSQL, t.Name, t.Role, valStr(t.Email), t.Content, t.Rating, valStr(t.Avatar), t.ID); err != nil {
		return domain.Testimonial{}, err
	}
	return r.GetTestimonial(ctx, t.ID)
}

func (r *Repo) DeleteTestimonial(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteTestimonialSQL, id)
}

/********** contact messages **********/

func scanMessage(s rowScanner) (domain.ContactMessage, error) {
	var m domain.ContactMessage
	var phone, service sql.NullString
	if err := s.Scan(&m.ID, &m.Name, &m.Email, &phone, &service, &m.Message, &m.Read, &m.CreatedAt); err != nil {
		return domain.ContactMessage{}, err
	}
	m.Phone = nullStr(phone)
	m.Service = nullStr(service)
	return m, nil
}

func (r *Repo) CreateMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error) {
	id, err := r.insert(ctx, insertMessageSQL, m.Name, m.Email, valStr(m.Phone), valStr(m.Service), m.Message)
	if err != nil {
		return domain.ContactMessage{}, err
	}
	return r.GetMessage(ctx, id)
}

func (r *Repo) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	return list(ctx, r.db, listMessagesSQL, scanMessage)
}

func (r *Repo) GetMessage(ctx context.Context, id int64) (domain.ContactMessage, error) {
	return get(ctx, r.db, getMessageSQL, id, scanMessage)
}

func (r *Repo) MarkMessageRead(ctx context.Context, id int64) (domain.ContactMessage, error) {
	if _, err := r.db.ExecContext(ctx, markMessageReadSQL, id); err != nil {
		return domain.ContactMessage{}, err
	}
	return r.GetMessage(ctx, id)
}

func (r *Repo) DeleteMessage(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteMessageSQL, id)
}

/********** shared helpers **********/

func (r *Repo) insert(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) delete(ctx context.Context, q string, id int64) error {
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func get[T any](ctx context.Context, db *sql.DB, q string, id int64, scan func(rowScanner) (T, error)) (T, error) {
	v, err := scan(db.QueryRowContext(ctx, q, id))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, domain.ErrNotFound
		}
		return zero, err
	}
	return v, nil
}

func list[T any](ctx context.Context, db *sql.DB, q string, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
