package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"electrosite/internal/adapters/auth"
	"electrosite/internal/app"
)

type Handlers struct {
	Q       *app.QueryService
	Reviews *app.PublicReviewService
	Contact *app.ContactService
	Admin   *app.AdminService

	// Auth guards the admin routes; when nil they are not mounted at all.
	Auth *auth.Issuer
	// Limiter throttles public form submissions; nil disables throttling.
	Limiter *IPLimiter
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/services", h.listServices)
		r.Get("/projects", h.listProjects)
		r.Get("/testimonials", h.listTestimonials)
		r.Get("/public-reviews", h.listPublicReviews)

		r.Group(func(r chi.Router) {
			if h.Limiter != nil {
				r.Use(h.Limiter.Limit)
			}
			r.Post("/public-reviews", h.submitPublicReview)
			r.Post("/contact", h.submitContact)
		})

		if h.Auth != nil && h.Admin != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminAuth(h.Auth))
				h.mountAdmin(r)
			})
		}
	})
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListServices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONWithETag(w, r, out)
}

func (h *Handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONWithETag(w, r, out)
}

func (h *Handlers) listTestimonials(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListTestimonials(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONWithETag(w, r, out)
}

func (h *Handlers) listPublicReviews(w http.ResponseWriter, r *http.Request) {
	out, fresh, err := h.Reviews.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	src := "backup"
	if fresh.Live {
		src = "live"
	}
	w.Header().Set("X-Reviews-Source", src)
	writeJSONWithETag(w, r, out)
}

func (h *Handlers) submitPublicReview(w http.ResponseWriter, r *http.Request) {
	var in app.PublicReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reviews.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var in app.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Contact.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
