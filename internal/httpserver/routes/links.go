package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/httpserver/handlers"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Route("/api/links", func(r chi.Router) {
		r.Get("/", handlers.ListLinks(d))
		r.Post("/", handlers.AddLink(d))
		r.Get("/archived", handlers.ListArchivedLinks(d))
		r.Get("/tag/{tag}", handlers.ListLinksByTag(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Patch("/", handlers.UpdateLink(d))
			r.Delete("/", handlers.DeleteLink(d))
			r.Post("/archive", handlers.ArchiveLink(d))
			r.Post("/unarchive", handlers.UnarchiveLink(d))
		})
	})
}
