package web

import (
	"net/http"

	"orderdesk/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	log    *logrus.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, log *logrus.Logger) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	// 1 MB body limit: edit-screen submissions are small JSON documents.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20))

		r.Get("/api/products", h.listProducts)

		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders/{ref}", h.getOrder)
		r.Post("/api/orders/{ref}/save", h.saveOrder)
		r.Get("/api/orders/{ref}/calls", h.listOrderCalls)
		r.Post("/api/orders/{ref}/calls", h.logOrderCall)

		r.Get("/api/leads", h.listLeads)
		r.Post("/api/leads", h.createLead)
		r.Get("/api/leads/{ref}", h.getLead)
		r.Post("/api/leads/{ref}/save", h.saveLead)
		r.Post("/api/leads/{ref}/convert", h.convertLead)
		r.Get("/api/leads/{ref}/calls", h.listLeadCalls)
		r.Post("/api/leads/{ref}/calls", h.logLeadCall)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// entityRef extracts the {ref} URL parameter.
func entityRef(r *http.Request) string {
	return chi.URLParam(r, "ref")
}
