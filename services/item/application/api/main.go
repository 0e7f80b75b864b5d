package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/services/item/application/handlers"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
// In production, 5xx response bodies carry only the status text.
func ItemRoutes(r chi.Router, svcs *appsvcs.Services, production bool) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewGetItemsHandler(svcs, production).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, production).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetItemHandler(svcs, production).Execute)
			r.Put("/", handlers.NewPutItemHandler(svcs, production).Execute)
			r.Delete("/", handlers.NewDeleteItemHandler(svcs, production).Execute)
		})
	})
}
