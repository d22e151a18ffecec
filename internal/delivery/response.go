package delivery

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/errors"
)

// Response is the envelope of every reply.
type Response struct {
	Status int `json:"status"`
	Body   any `json:"body,omitempty"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorJSON = `{"status":500,"body":{"error":"internal server error"}}`

const maxBodyBytes = 1 << 20

// WriteResponse writes body in the envelope with the given status.
func WriteResponse(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		WriteInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteInternalError writes a fixed 500 reply.
func WriteInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}

// WriteError maps err to a status and writes it. Unexpected errors are
// logged and hidden from the client.
func WriteError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "error", err)
		WriteInternalError(w)
		return
	}
	WriteResponse(w, status, ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errors.ErrRepertoireNotFound), errors.Is(err, errors.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrIllegalMove), errors.Is(err, errors.ErrInvalidDisambiguation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrInvalidSquare),
		errors.Is(err, errors.ErrInvalidPlacement),
		errors.Is(err, errors.ErrInvalidName),
		errors.Is(err, errors.ErrBadRequest),
		errors.Is(err, errors.ErrInvalidMovetext):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	return nil
}
