package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/rl1809/brewery/internal/core/domain"
	"github.com/rl1809/brewery/internal/core/service"
)

const (
	maxBodyBytes     = 1 << 20
	readinessTimeout = 2 * time.Second
)

// HealthCheck is a named dependency probed by the readiness endpoint.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HTTPHandler struct {
	beerService *service.BeerService
	checks      []HealthCheck
}

func NewHTTPHandler(beerService *service.BeerService, checks ...HealthCheck) *HTTPHandler {
	return &HTTPHandler{beerService: beerService, checks: checks}
}

func (h *HTTPHandler) GetBeerByID(w http.ResponseWriter, r *http.Request) {
	id, err := beerIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	beer, err := h.beerService.GetBeerByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBeerDto(beer))
}

func (h *HTTPHandler) SaveNewBeer(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeBeer(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := h.beerService.SaveNewBeer(r.Context(), dto.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", beerBasePath+saved.ID.String())
	writeJSON(w, http.StatusCreated, toBeerDto(saved))
}

func (h *HTTPHandler) UpdateBeerByID(w http.ResponseWriter, r *http.Request) {
	id, err := beerIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dto, err := decodeBeer(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.beerService.UpdateBeer(r.Context(), id, dto.toDomain()); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type componentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status     string            `json:"status"`
	Components []componentStatus `json:"components"`
}

func (h *HTTPHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	statuses := make([]componentStatus, len(h.checks))
	p := pool.New()
	for i, check := range h.checks {
		p.Go(func() {
			statuses[i] = componentStatus{Name: check.Name, Status: "up"}
			if err := check.Ping(ctx); err != nil {
				statuses[i].Status = "down"
				statuses[i].Error = err.Error()
			}
		})
	}
	p.Wait()

	resp := readinessResponse{Status: "ok", Components: statuses}
	status := http.StatusOK
	for _, s := range statuses {
		if s.Status != "up" {
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}

func beerIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, beerIDParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q is not a valid UUID", domain.ErrInvalidArgument, beerIDParam, raw)
	}
	return id, nil
}

func decodeBeer(w http.ResponseWriter, r *http.Request) (BeerDto, error) {
	var dto BeerDto

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return dto, errUnsupportedMediaType
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dto, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return dto, fmt.Errorf("%w: malformed request body: %w", domain.ErrInvalidArgument, err)
	}

	if err := validateBeer(dto); err != nil {
		return dto, err
	}
	return dto, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
