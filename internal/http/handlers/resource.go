package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/quitcoach/client/internal/repo"
	"go.uber.org/zap"
)

var errInvalidBody = errors.New("invalid request body")

// Resource serves list/get/create/update/delete for one table
type Resource[T repo.Row[T]] struct {
	Table *repo.Table[T]
	// NotFound and Deleted are the response messages
	NotFound string
	Deleted  string
	// Required reports whether a create body carries the mandatory fields
	Required func(T) bool
	// Conflict reports whether an existing row blocks inserting incoming
	Conflict    func(existing, incoming T) bool
	ConflictMsg string
	// Prepare normalizes a row before it is stored. existing is nil on create.
	Prepare func(existing *T, incoming T) (T, error)
	// Filter builds the list predicate from query parameters
	Filter func(r *http.Request) (func(T) bool, error)
	Logger *zap.Logger
}

// List handles GET /{resource}
func (h *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	var keep func(T) bool
	if h.Filter != nil {
		var err error
		if keep, err = h.Filter(r); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rows := h.Table.List(keep)
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = redact(row)
	}
	respondJSON(w, http.StatusOK, out)
}

// Get handles GET /{resource}/{id}
func (h *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, h.NotFound)
		return
	}
	row, found := h.Table.Get(id)
	if !found {
		respondWithError(w, http.StatusNotFound, h.NotFound)
		return
	}
	respondJSON(w, http.StatusOK, redact(row))
}

// Create handles POST /{resource}
func (h *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}
	if h.Required != nil && !h.Required(in) {
		respondWithError(w, http.StatusBadRequest, "Datos incompletos")
		return
	}

	if h.Prepare != nil {
		prepared, err := h.Prepare(nil, in)
		if err != nil {
			h.Logger.Error("failed to prepare row", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "internal error")
			return
		}
		in = prepared
	}

	var created T
	if h.Conflict != nil {
		var ok bool
		created, ok = h.Table.InsertUnique(in, func(existing T) bool { return h.Conflict(existing, in) })
		if !ok {
			respondWithError(w, http.StatusBadRequest, h.ConflictMsg)
			return
		}
	} else {
		created = h.Table.Insert(in)
	}

	respondJSON(w, http.StatusCreated, redact(created))
}

// Update handles PUT /{resource}/{id}. Fields missing from the body keep
// their stored value.
func (h *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, h.NotFound)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil || !json.Valid(body) {
		respondWithError(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	updated, found, err := h.Table.Update(id, func(existing T) (T, error) {
		merged, err := mergeJSON(existing, body)
		if err != nil {
			return merged, err
		}
		if h.Prepare != nil {
			return h.Prepare(&existing, merged)
		}
		return merged, nil
	})
	switch {
	case !found:
		respondWithError(w, http.StatusNotFound, h.NotFound)
	case errors.Is(err, errInvalidBody):
		respondWithError(w, http.StatusBadRequest, errInvalidBody.Error())
	case err != nil:
		h.Logger.Error("failed to update row", zap.Int64("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "internal error")
	default:
		respondJSON(w, http.StatusOK, redact(updated))
	}
}

// Delete handles DELETE /{resource}/{id}
func (h *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok || !h.Table.Delete(id) {
		respondWithError(w, http.StatusNotFound, h.NotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": h.Deleted})
}

// mergeJSON decodes body over a deep copy of existing so stored rows never
// share pointers with the result.
func mergeJSON[T any](existing T, body []byte) (T, error) {
	var merged T
	raw, err := json.Marshal(existing)
	if err != nil {
		return merged, err
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return merged, err
	}
	if err := json.Unmarshal(body, &merged); err != nil {
		return merged, errInvalidBody
	}
	return merged, nil
}

func redact[T any](v T) T {
	if r, ok := any(v).(interface{ Redacted() T }); ok {
		return r.Redacted()
	}
	return v
}
