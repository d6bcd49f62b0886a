package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/httpserver/handlers"
)

func init() { Register(registerShare) }

func registerShare(r chi.Router, d deps.Deps) {
	r.Get("/share", handlers.Share(d))
}
