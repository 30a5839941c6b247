package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/yourusername/quant-share/internal/models"
)

// dataResponse wraps every successful payload.
type dataResponse struct {
	Data interface{} `json:"data"`
}

// listResponse is the payload for /shared-results.
type listResponse struct {
	Data  []*models.SharedResult `json:"data"`
	Total int                    `json:"total"`
	Count int                    `json:"count"`
}

// errorResponse is the payload for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// shareResponse is the payload for an accepted submission.
type shareResponse struct {
	ID uuid.UUID `json:"id"`
}

// rateRequest is the body for /rate-result.
type rateRequest struct {
	ID     string  `json:"id"`
	Rating float64 `json:"rating"`
}

// handleShareResult handles POST /share-result.
func (s *Server) handleShareResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var result models.SharedResult
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	id, err := s.sharingSvc.Share(r.Context(), &result)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: shareResponse{ID: id}})
}

// handleListResults handles GET /shared-results. All string to number
// coercion happens here; the service receives typed values.
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.sharingSvc.List(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:  page.Results,
		Total: page.Total,
		Count: len(page.Results),
	})
}

// handleRateResult handles POST /rate-result.
func (s *Server) handleRateResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid result id")
		return
	}

	if err := s.sharingSvc.Rate(r.Context(), id, req.Rating); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: map[string]interface{}{
		"id":     id,
		"rating": req.Rating,
	}})
}

// parseListFilter builds a typed filter from request query parameters. An
// absent limit falls back to the default page size; a present but malformed
// or non-positive one is an error.
func parseListFilter(r *http.Request) (models.ListFilter, error) {
	q := r.URL.Query()

	filter := models.ListFilter{
		Query:  q.Get("query"),
		Limit:  models.DefaultListLimit,
		SortBy: q.Get("sort_by"),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, models.NewFilterError("limit", "must be an integer")
		}
		filter.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, models.NewFilterError("offset", "must be an integer")
		}
		filter.Offset = offset
	}

	var err error
	if filter.MinTotalReturn, err = parseFloatParam(q.Get("min_total_return"), "min_total_return"); err != nil {
		return filter, err
	}
	if filter.MaxDrawdown, err = parseFloatParam(q.Get("max_drawdown"), "max_drawdown"); err != nil {
		return filter, err
	}
	if filter.MinSharpeRatio, err = parseFloatParam(q.Get("min_sharpe_ratio"), "min_sharpe_ratio"); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseFloatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, models.NewFilterError(name, "must be a number")
	}
	return &value, nil
}

// writeDomainError maps service errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidationError(err) || models.IsFilterError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "result not found")
	case errors.Is(err, models.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		s.logger.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
