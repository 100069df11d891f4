package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/maplefay/homeplate/internal/auth"
	"github.com/maplefay/homeplate/internal/store"
	ws "github.com/maplefay/homeplate/internal/websocket"
)

type GroceryHandler struct {
	groceryStore *store.GroceryStore
	hub          *ws.Hub
	logger       *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, hub *ws.Hub, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{groceryStore: gs, hub: hub, logger: logger}
}

type groceryItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groceryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	userID := auth.UserID(r.Context())
	item, err := h.groceryStore.Create(householdID, req.Name, req.Quantity, &userID)
	if err != nil {
		h.logger.Error("create grocery item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("grocery", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.groceryStore.List(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list grocery items", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type groceryCheckRequest struct {
	Checked bool `json:"checked"`
}

func (h *GroceryHandler) SetChecked(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req groceryCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	item, err := h.groceryStore.SetChecked(id, householdID, req.Checked)
	if err != nil {
		h.logger.Error("set grocery checked", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "grocery item not found")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("grocery", "updated", item.ID, nil))
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	if err := h.groceryStore.Delete(id, householdID); err != nil {
		h.logger.Error("delete grocery item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("grocery", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
