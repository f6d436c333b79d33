package http

import (
	"net/http"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialmap/query"
	"github.com/aukilabs/spatialmap/spatial"
	"github.com/segmentio/encoding/json"
)

const (
	ErrTypeBadRequest = "bad_request"
)

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logs.Warn(errors.New("encoding response failed").Wrap(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func statusCode(err error) int {
	switch errors.Type(err) {
	case ErrTypeBadRequest, spatial.ErrTypeInvalidKey:
		return http.StatusBadRequest

	case query.ErrTypeUnknownRegion:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		logs.Warn(err)
	} else {
		logs.WithTag("status", status).Debug(err)
	}

	writeJSON(w, status, errorResponse{
		Error: http.StatusText(status),
		Type:  errors.Type(err),
	})
}

func floatParam(r *http.Request, name string) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, errors.New("missing query parameter").
			WithType(ErrTypeBadRequest).
			WithTag("param", name)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid query parameter").
			WithType(ErrTypeBadRequest).
			WithTag("param", name).
			WithTag("value", s).
			Wrap(err)
	}
	return v, nil
}
