package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailfx/internal/errors"
	"retailfx/internal/services"
)

const (
	defaultLimit = 50
)

// FeatureHandler serves the customer, product and country features.
type FeatureHandler struct {
	service      FeatureServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFeatureHandler creates a feature handler
func NewFeatureHandler(service FeatureServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FeatureHandler {
	return &FeatureHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "feature_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the feature routes
func (h *FeatureHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/manifest", h.GetManifest)
	r.Get("/customers", h.ListCustomers)
	r.Get("/customers/{customerID}", h.GetCustomer)
	r.Get("/segments", h.GetSegments)
	r.Get("/products", h.ListProducts)
	r.Get("/countries", h.ListCountries)
	return r
}

// GetManifest handles GET /manifest
func (h *FeatureHandler) GetManifest(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Manifest(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, m)
}

// ListCustomers handles GET /customers?segment=&country=&limit=&offset=
func (h *FeatureHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := h.window(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := h.service.ListCustomers(r.Context(), services.CustomerQuery{
		Segment: q.Get("segment"),
		Country: q.Get("country"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// GetCustomer handles GET /customers/{customerID}
func (h *FeatureHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, c)
}

// GetSegments handles GET /segments
func (h *FeatureHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	segments, err := h.service.Segments(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, segments)
}

// ListProducts handles GET /products?category=&sort=&limit=&offset=
func (h *FeatureHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := h.window(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := h.service.ListProducts(r.Context(), services.ProductQuery{
		Category: q.Get("category"),
		SortBy:   q.Get("sort"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// ListCountries handles GET /countries
func (h *FeatureHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.ListCountries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, countries)
}

// window parses limit and offset, writing a 400 on malformed values.
func (h *FeatureHandler) window(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("limit", v))
			return 0, 0, false
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("offset", v))
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
