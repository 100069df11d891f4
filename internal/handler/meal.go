package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/maplefay/homeplate/internal/auth"
	"github.com/maplefay/homeplate/internal/store"
	ws "github.com/maplefay/homeplate/internal/websocket"
)

type MealHandler struct {
	mealStore *store.MealStore
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewMealHandler(ms *store.MealStore, hub *ws.Hub, logger *slog.Logger) *MealHandler {
	return &MealHandler{mealStore: ms, hub: hub, logger: logger}
}

type mealRequest struct {
	Name      string `json:"name"`
	EatenOn   string `json:"eaten_on"`
	CostCents int64  `json:"cost_cents"`
	Notes     string `json:"notes"`
}

func (req *mealRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.EatenOn == "" {
		req.EatenOn = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.EatenOn); err != nil {
		return "eaten_on must be YYYY-MM-DD"
	}
	if req.CostCents < 0 {
		return "cost_cents must not be negative"
	}
	return ""
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	householdID := auth.HouseholdID(r.Context())
	userID := auth.UserID(r.Context())
	entry, err := h.mealStore.Create(householdID, req.Name, req.EatenOn, req.CostCents, req.Notes, &userID)
	if err != nil {
		h.logger.Error("create meal entry", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("meal", "created", entry.ID, nil))
	writeJSON(w, http.StatusCreated, entry)
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.mealStore.List(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list meal entries", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	householdID := auth.HouseholdID(r.Context())
	entry, err := h.mealStore.Update(id, householdID, req.Name, req.EatenOn, req.CostCents, req.Notes)
	if err != nil {
		h.logger.Error("update meal entry", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "meal entry not found")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("meal", "updated", entry.ID, nil))
	writeJSON(w, http.StatusOK, entry)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	if err := h.mealStore.Delete(id, householdID); err != nil {
		h.logger.Error("delete meal entry", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("meal", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
