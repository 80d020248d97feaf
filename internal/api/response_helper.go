package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/routing"
)

const maxBodyBytes = 1 << 20

const internalErrorMessage = "Internal Server Error"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string               `json:"message"`
	Status  int                  `json:"status"`
	Code    coreerrors.ErrorCode `json:"code,omitempty"`
	Data    any                  `json:"data,omitempty"`
	Date    *time.Time           `json:"date,omitempty"`
}

// NewErrorBody renders err. Messages of 5xx errors are replaced so
// internals never reach the client.
func NewErrorBody(err error, now time.Time) ErrorBody {
	body := ErrorBody{Status: coreerrors.HTTPStatus(err), Date: &now}
	var e *coreerrors.Error
	if errors.As(err, &e) {
		body.Code = e.Code
		body.Message = e.Message
		body.Data = e.Data
	} else {
		body.Code = coreerrors.CodeInternal
		body.Message = err.Error()
	}
	if body.Status >= http.StatusInternalServerError {
		body.Message = internalErrorMessage
	}
	return body
}

// responder writes JSON for one handler group.
type responder struct {
	group  string
	logger corelog.Logger
}

func newResponder(group string, logger corelog.Logger) responder {
	if logger == nil {
		logger = corelog.Default()
	}
	return responder{group: group, logger: logger.WithField("group", group)}
}

func (rp responder) ok(w http.ResponseWriter, v any) {
	respondJSON(w, http.StatusOK, v)
}

// fail logs err against the route serving r and renders it.
func (rp responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	entry := rp.logger.WithError(err).WithField("request_id", RequestIDFrom(r.Context()))
	method, path := r.Method, r.URL.Path
	if d, ok := routing.DescriptorFrom(r.Context()); ok {
		method, path = d.Method, d.Path
	}
	logf := entry.Warnf
	if coreerrors.HTTPStatus(err) >= http.StatusInternalServerError {
		logf = entry.Errorf
	}
	logf("%s %s %s returned error", rp.group, method, path)
	respondError(w, err)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		corelog.WithError(err).Debug("write response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	body := NewErrorBody(err, time.Now())
	respondJSON(w, body.Status, body)
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return coreerrors.Wrap(err, coreerrors.CodeInvalidRequest, "invalid JSON body")
	}
	return nil
}
