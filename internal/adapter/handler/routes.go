package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	beerBasePath = "/api/v1/beer/"
	beerIDParam  = "beerId"
)

// PathParam documents one {name} segment of a route path.
type PathParam struct {
	Name        string
	Description string
	Format      string
}

// Route is one entry of the API route table. The router and the
// documentation generator are both built from Routes.
type Route struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
	Tags        []string
	PathParams  []PathParam

	// Request and Response are zero values of the body types, nil when
	// the operation has no body in that direction.
	Request  any
	Response any

	Status int
	Errors []int

	// ResponseHeaders maps header names set on success to their descriptions.
	ResponseHeaders map[string]string

	Handle func(h *HTTPHandler, w http.ResponseWriter, r *http.Request)
}

func Routes() []Route {
	beerID := PathParam{
		Name:        beerIDParam,
		Description: "UUID of desired beer to get.",
		Format:      "uuid",
	}

	return []Route{
		{
			OperationID: "getBeerById",
			Method:      http.MethodGet,
			Path:        beerBasePath + "{" + beerIDParam + "}",
			Summary:     "Get a beer by id",
			Tags:        []string{"beer"},
			PathParams:  []PathParam{beerID},
			Response:    BeerDto{},
			Status:      http.StatusOK,
			Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
			Handle:      (*HTTPHandler).GetBeerByID,
		},
		{
			OperationID:     "saveNewBeer",
			Method:          http.MethodPost,
			Path:            beerBasePath,
			Summary:         "Create a beer",
			Tags:            []string{"beer"},
			Request:         BeerDto{},
			Response:        BeerDto{},
			Status:          http.StatusCreated,
			Errors:          []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType, http.StatusInternalServerError},
			ResponseHeaders: map[string]string{"Location": "Path of the created beer"},
			Handle:          (*HTTPHandler).SaveNewBeer,
		},
		{
			OperationID: "updateBeerById",
			Method:      http.MethodPut,
			Path:        beerBasePath + "{" + beerIDParam + "}",
			Summary:     "Update a beer",
			Tags:        []string{"beer"},
			PathParams:  []PathParam{beerID},
			Request:     BeerDto{},
			Status:      http.StatusNoContent,
			Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType, http.StatusInternalServerError},
			Handle:      (*HTTPHandler).UpdateBeerByID,
		},
	}
}

// NewRouter registers the route table and the health endpoints on a chi mux.
// docs, when not nil, is served at /openapi.json.
func NewRouter(h *HTTPHandler, logger zerolog.Logger, docs http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		hlog.NewHandler(logger),
		requestID,
		accessLog,
		recoverer,
	)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health/liveness", h.Liveness)
	r.Get("/health/readiness", h.Readiness)
	if docs != nil {
		r.Method(http.MethodGet, "/openapi.json", docs)
	}

	for _, route := range Routes() {
		handle := route.Handle
		r.Method(route.Method, route.Path, otelhttp.WithRouteTag(route.Path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			handle(h, w, req)
		})))
	}

	return r
}
