package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (h *Handlers) mountAdmin(r chi.Router) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", listHandler(h.Q.ListServices))
		r.Post("/", createHandler("service", h.Admin.CreateService))
		r.Get("/{id}", getHandler(h.Q.GetService))
		r.Put("/{id}", updateHandler("service", h.Admin.UpdateService))
		r.Delete("/{id}", deleteHandler("service", h.Admin.DeleteService))
	})
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", listHandler(h.Q.ListProjects))
		r.Post("/", createHandler("project", h.Admin.CreateProject))
		r.Get("/{id}", getHandler(h.Q.GetProject))
		r.Put("/{id}", updateHandler("project", h.Admin.UpdateProject))
		r.Delete("/{id}", deleteHandler("project", h.Admin.DeleteProject))
	})
	r.Route("/testimonials", func(r chi.Router) {
		r.Get("/", listHandler(h.Q.ListTestimonials))
		r.Post("/", createHandler("testimonial", h.Admin.CreateTestimonial))
		r.Get("/{id}", getHandler(h.Q.GetTestimonial))
		r.Put("/{id}", updateHandler("testimonial", h.Admin.UpdateTestimonial))
		r.Delete("/{id}", deleteHandler("testimonial", h.Admin.DeleteTestimonial))
	})
	r.Route("/messages", func(r chi.Router) {
		r.Get("/", listHandler(h.Admin.ListMessages))
		r.Get("/{id}", getHandler(h.Admin.GetMessage))
		r.Patch("/{id}/read", getHandler(h.Admin.MarkMessageRead))
		r.Delete("/{id}", deleteHandler("message", h.Admin.DeleteMessage))
	})
}

func listHandler[T any](fn func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getHandler serves any id-addressed call that returns the entity.
func getHandler[T any](fn func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		out, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createHandler[I, T any](what string, fn func(context.Context, I) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in I
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		out, err := fn(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		auditLog(r, what, "created", 0)
		writeJSON(w, http.StatusCreated, out)
	}
}

func updateHandler[I, T any](what string, fn func(context.Context, int64, I) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var in I
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		out, err := fn(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		auditLog(r, what, "updated", id)
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteHandler(what string, fn func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := fn(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		auditLog(r, what, "deleted", id)
		writeJSON(w, http.StatusOK, nil)
	}
}

func auditLog(r *http.Request, what, action string, id int64) {
	ev := log.Info().Str("entity", what).Str("action", action).Str("request_id", requestID(r))
	if id > 0 {
		ev = ev.Int64("id", id)
	}
	if c, ok := ClaimsFrom(r.Context()); ok {
		ev = ev.Str("admin", c.Subject)
	}
	ev.Msg("admin_write")
}
