// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// PassagesHandler handles passage catalog requests.
type PassagesHandler struct {
	provider PassageProvider
}

// NewPassagesHandler creates a new passages handler.
func NewPassagesHandler(provider PassageProvider) *PassagesHandler {
	return &PassagesHandler{provider: provider}
}

// HandleGetPassages handles GET /passages requests with optional
// ?difficulty= or ?age= filters.
func (h *PassagesHandler) HandleGetPassages(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_passages"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	ageStr := r.URL.Query().Get("age")

	if difficulty != "" && ageStr != "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%s: %w: filter by either difficulty or age, not both", op, ErrBadRequest))
		return
	}

	switch {
	case difficulty != "":
		list, err := h.provider.ByDifficulty(difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
			return
		}
		writeJSON(w, http.StatusOK, list)
	case ageStr != "":
		age, err := strconv.Atoi(ageStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%s: %w: age must be an integer", op, ErrBadRequest))
			return
		}
		list, err := h.provider.ForAge(age)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
			return
		}
		writeJSON(w, http.StatusOK, list)
	default:
		writeJSON(w, http.StatusOK, h.provider.All())
	}
}
