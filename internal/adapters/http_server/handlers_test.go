package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"electrosite/internal/adapters/auth"
	server "electrosite/internal/adapters/http_server"
	"electrosite/internal/app"
	"electrosite/internal/domain"
)

// memRepo implements only what the routes under test touch; anything else
// panics through the nil embedded interfaces.
type memRepo struct {
	domain.CatalogRepository
	domain.MessageRepository

	mu           sync.Mutex
	next         int64
	testimonials []domain.Testimonial
	messages     []domain.ContactMessage
}

func (m *memRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	return []domain.Service{{ID: 1, Title: "Wiring", Description: "Homes", Features: []string{}}}, nil
}

func (m *memRepo) DeleteService(ctx context.Context, id int64) error {
	return domain.ErrNotFound
}

func (m *memRepo) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Testimonial(nil), m.testimonials...), nil
}

func (m *memRepo) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	t.ID, t.CreatedAt = m.next, time.Now()
	m.testimonials = append(m.testimonials, t)
	return t, nil
}

func (m *memRepo) CreateMessage(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	msg.ID, msg.CreatedAt = m.next, time.Now()
	m.messages = append(m.messages, msg)
	return msg, nil
}

const testSecret = "test-secret-0123456789"

func newTestServer(t *testing.T, lim *server.IPLimiter, trusted ...netip.Prefix) (http.Handler, *memRepo, *auth.Issuer) {
	t.Helper()
	repo := &memRepo{}
	is, err := auth.NewIssuer(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	admin := app.NewAdminService(repo, repo, nil)
	gate := app.NewReviewGate(app.NewReviewResolver(nil, time.Second), time.Hour, time.Minute)
	h := &server.Handlers{
		Q:       app.NewQueryService(repo, nil, time.Minute),
		Reviews: app.NewPublicReviewService(gate, repo, admin),
		Contact: app.NewContactService(repo),
		Admin:   admin,
		Auth:    is,
		Limiter: lim,
	}
	srv := server.New(zerolog.Nop(), 5*time.Second, trusted...)
	srv.MountHandlers(h)
	return srv.Mux(), repo, is
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return doFrom(t, h, "", method, path, body, hdr)
}

// doFrom sends the request from remoteAddr; empty keeps the httptest default.
func doFrom(t *testing.T, h http.Handler, remoteAddr, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: body is not JSON: %q", method, path, rec.Body.String())
		}
	}
	return rec, env
}

func TestContact_Success(t *testing.T) {
	h, repo, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/contact",
		`{"name":"Test User","email":"test@example.com","phone":"123456789","service":"residential","message":"test"}`, nil)

	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.ID <= 0 {
		t.Fatalf("expected numeric id in data, got %s (%v)", env.Data, err)
	}
	if len(repo.messages) != 1 {
		t.Fatalf("message not stored")
	}
}

func TestContact_MissingFields(t *testing.T) {
	h, repo, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/contact", `{"name":"","email":""}`, nil)

	if rec.Code != http.StatusBadRequest || env.Success || len(env.Errors) == 0 {
		t.Fatalf("expected 400 with field errors, got %d %s", rec.Code, rec.Body.String())
	}
	if len(repo.messages) != 0 {
		t.Fatalf("invalid message was stored")
	}
}

func TestContact_BadJSON(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/contact", `{"name":`, nil)
	if rec.Code != http.StatusBadRequest || len(env.Errors) == 0 || env.Errors[0].Field != "body" {
		t.Fatalf("expected 400 body error, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPublicReviews_StableAndTagged(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec1, env1 := do(t, h, http.MethodGet, "/api/public-reviews", "", nil)
	rec2, env2 := do(t, h, http.MethodGet, "/api/public-reviews", "", nil)

	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Fatalf("unexpected status %d/%d", rec1.Code, rec2.Code)
	}
	if got := rec1.Header().Get("X-Reviews-Source"); got != "backup" {
		t.Fatalf("expected backup source header, got %q", got)
	}
	if string(env1.Data) != string(env2.Data) {
		t.Fatalf("review list changed between calls")
	}
	var rs []domain.Review
	if err := json.Unmarshal(env1.Data, &rs); err != nil || len(rs) == 0 {
		t.Fatalf("expected reviews, got %s (%v)", env1.Data, err)
	}
	for _, r := range rs {
		if !r.Valid() {
			t.Fatalf("invalid review served: %+v", r)
		}
	}
}

func TestPublicReviews_ETag(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodGet, "/api/public-reviews", "", nil)
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	rec, _ = do(t, h, http.MethodGet, "/api/public-reviews", "", map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}

func TestPublicReviewSubmit_AppearsInList(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodPost, "/api/public-reviews", `{"name":"Lucas","rating":5,"content":"Great service"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}

	_, env := do(t, h, http.MethodGet, "/api/public-reviews", "", nil)
	var rs []domain.Review
	if err := json.Unmarshal(env.Data, &rs); err != nil {
		t.Fatal(err)
	}
	last := rs[len(rs)-1]
	if last.Name != "Lucas" || last.Source != domain.SourceWebsite || last.Date == nil {
		t.Fatalf("submitted review not listed last as a website review: %+v", last)
	}
}

func TestPublicReviewSubmit_RatingOutOfRange(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/public-reviews", `{"name":"Lucas","rating":6,"content":"x"}`, nil)
	if rec.Code != http.StatusBadRequest || len(env.Errors) == 0 || env.Errors[0].Field != "rating" {
		t.Fatalf("expected rating error, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_RequiresToken(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodDelete, "/api/admin/services/1", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec, _ = do(t, h, http.MethodDelete, "/api/admin/services/1", "", map[string]string{"Authorization": "Bearer not-a-token"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}
}

func TestAdmin_DeleteMissingService(t *testing.T) {
	h, _, is := newTestServer(t, nil)
	tok, err := is.Issue("owner", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	rec, env := do(t, h, http.MethodDelete, "/api/admin/services/99999", "", map[string]string{"Authorization": "Bearer " + tok})
	if rec.Code != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_BadID(t *testing.T) {
	h, _, is := newTestServer(t, nil)
	tok, _ := is.Issue("owner", time.Minute)

	rec, _ := do(t, h, http.MethodDelete, "/api/admin/services/abc", "", map[string]string{"Authorization": "Bearer " + tok})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdmin_NotMountedWithoutAuth(t *testing.T) {
	repo := &memRepo{}
	h := &server.Handlers{Q: app.NewQueryService(repo, nil, time.Minute), Admin: app.NewAdminService(repo, repo, nil)}
	srv := server.New(zerolog.Nop(), time.Second)
	srv.MountHandlers(h)

	rec, _ := do(t, srv.Mux(), http.MethodGet, "/api/admin/services", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when admin auth is not configured, got %d", rec.Code)
	}
}

func TestSubmitLimiter(t *testing.T) {
	h, _, _ := newTestServer(t, server.NewIPLimiter(0.001, 2))
	body := `{"name":"Test User","email":"test@example.com","message":"hello"}`

	for i := 0; i < 2; i++ {
		if rec, _ := do(t, h, http.MethodPost, "/api/contact", body, nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec, _ := do(t, h, http.MethodPost, "/api/contact", body, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// other clients keep their own budget
	if rec, _ := doFrom(t, h, "198.51.100.7:4000", http.MethodPost, "/api/contact", body, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected a separate budget per client, got %d", rec.Code)
	}
}

func TestSubmitLimiter_IgnoresForwardedHeadersFromClients(t *testing.T) {
	lim := server.NewIPLimiter(0.001, 1)
	h, _, _ := newTestServer(t, lim)
	body := `{"name":"Test User","email":"test@example.com","message":"hello"}`

	accepted := 0
	for i := 0; i < 20; i++ {
		hdr := map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.0.%d.%d", i/250, i%250+1),
			"X-Real-IP":       fmt.Sprintf("172.16.0.%d", i+1),
		}
		if rec, _ := doFrom(t, h, "203.0.113.9:5555", http.MethodPost, "/api/contact", body, hdr); rec.Code == http.StatusOK {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("rotating forwarding headers must not reset the budget: %d/20 accepted", accepted)
	}
	if n := lim.Len(); n != 1 {
		t.Fatalf("expected one bucket for one peer, got %d", n)
	}
}

func TestSubmitLimiter_TrustedProxyForwardsClientIP(t *testing.T) {
	trusted, err := server.ParseTrustedProxies("10.0.0.0/8")
	if err != nil {
		t.Fatal(err)
	}
	h, _, _ := newTestServer(t, server.NewIPLimiter(0.001, 1), trusted...)
	body := `{"name":"Test User","email":"test@example.com","message":"hello"}`
	proxy := "10.1.2.3:443"

	first := map[string]string{"X-Forwarded-For": "198.51.100.1, 10.9.9.9"}
	if rec, _ := doFrom(t, h, proxy, http.MethodPost, "/api/contact", body, first); rec.Code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", rec.Code)
	}
	if rec, _ := doFrom(t, h, proxy, http.MethodPost, "/api/contact", body, first); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client again: expected 429, got %d", rec.Code)
	}
	second := map[string]string{"X-Forwarded-For": "198.51.100.2"}
	if rec, _ := doFrom(t, h, proxy, http.MethodPost, "/api/contact", body, second); rec.Code != http.StatusOK {
		t.Fatalf("second client behind the same proxy: expected 200, got %d", rec.Code)
	}
}

func TestContact_WrongTopLevelType(t *testing.T) {
	h, _, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/contact", `[]`, nil)
	if rec.Code != http.StatusBadRequest || len(env.Errors) != 1 || env.Errors[0].Field != "body" {
		t.Fatalf("expected 400 naming the body, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _, _ := newTestServer(t, nil)
	rec, env := do(t, h, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404 problem, got %d", rec.Code)
	}
}
