package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kushalkp88/whatsapp-scheduler/internal/engine"
	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
	"github.com/kushalkp88/whatsapp-scheduler/internal/repo"
)

type Handler struct {
	eng  *engine.Engine
	repo repo.AttemptRepository
}

func NewHandler(e *engine.Engine, r repo.AttemptRepository) *Handler {
	return &Handler{eng: e, repo: r}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running": h.eng.IsRunning(),
		"counts":  h.eng.Counts(),
	})
}

func (h *Handler) SchedulerStop(w http.ResponseWriter, r *http.Request) {
	h.eng.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.eng.IsRunning()})
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	status := model.Status(r.URL.Query().Get("status"))

	items, err := h.repo.List(r.Context(), status, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
