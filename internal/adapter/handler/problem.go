package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rl1809/brewery/internal/core/domain"
)

const problemContentType = "application/problem+json"

var (
	errUnsupportedMediaType = errors.New("content type must be application/json")
	errBodyTooLarge         = errors.New("request body too large")
)

// ProblemDetail is an RFC 7807 error body.
type ProblemDetail struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

func writeProblem(w http.ResponseWriter, r *http.Request, p ProblemDetail) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if p.Instance == "" {
		p.Instance = r.URL.Path
	}

	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}

// writeError maps an error to its status: invalid arguments to 400,
// missing beers to 404 and everything else to 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusBadRequest,
			Detail: "request body failed validation",
			Errors: verr.Fields,
		})
	case errors.Is(err, errBodyTooLarge):
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusRequestEntityTooLarge,
			Detail: err.Error(),
		})
	case errors.Is(err, errUnsupportedMediaType):
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusUnsupportedMediaType,
			Detail: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusNotFound,
			Detail: domain.ErrNotFound.Error(),
		})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusInternalServerError,
			Detail: "internal error",
		})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeProblem(w, r, ProblemDetail{Status: http.StatusNotFound, Detail: "no route for " + r.URL.Path})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeProblem(w, r, ProblemDetail{Status: http.StatusMethodNotAllowed, Detail: r.Method + " is not supported for " + r.URL.Path})
}
