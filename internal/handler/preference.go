package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maplefay/homeplate/internal/auth"
	"github.com/maplefay/homeplate/internal/store"
	ws "github.com/maplefay/homeplate/internal/websocket"
)

type PreferenceHandler struct {
	prefStore *store.PreferenceStore
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewPreferenceHandler(ps *store.PreferenceStore, hub *ws.Hub, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefStore: ps, hub: hub, logger: logger}
}

func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefStore.List(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

type preferenceRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *PreferenceHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	pref, err := h.prefStore.Set(householdID, req.Key, req.Value)
	if err != nil {
		h.logger.Error("set preference", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("preference", "updated", pref.ID, map[string]any{
		"key": pref.Key,
	}))
	writeJSON(w, http.StatusOK, pref)
}

func (h *PreferenceHandler) ListCuisineWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.prefStore.ListCuisineWeights(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list cuisine weights", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, weights)
}

type cuisineWeightRequest struct {
	Cuisine string  `json:"cuisine"`
	Weight  float64 `json:"weight"`
}

func (h *PreferenceHandler) SetCuisineWeight(w http.ResponseWriter, r *http.Request) {
	var req cuisineWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Cuisine = strings.TrimSpace(req.Cuisine)
	if req.Cuisine == "" {
		writeError(w, http.StatusBadRequest, "cuisine is required")
		return
	}
	if req.Weight < 0 {
		writeError(w, http.StatusBadRequest, "weight must not be negative")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	cw, err := h.prefStore.SetCuisineWeight(householdID, req.Cuisine, req.Weight)
	if err != nil {
		h.logger.Error("set cuisine weight", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("cuisine_weight", "updated", cw.ID, map[string]any{
		"cuisine": cw.Cuisine,
	}))
	writeJSON(w, http.StatusOK, cw)
}

func (h *PreferenceHandler) ListDisabledItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.prefStore.ListDisabledItems(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list disabled items", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type disabledItemRequest struct {
	ItemName string `json:"item_name"`
}

func (h *PreferenceHandler) DisableItem(w http.ResponseWriter, r *http.Request) {
	var req disabledItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "item_name is required")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	item, err := h.prefStore.DisableItem(householdID, req.ItemName)
	if err != nil {
		h.logger.Error("disable item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("disabled_item", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

func (h *PreferenceHandler) EnableItem(w http.ResponseWriter, r *http.Request) {
	var req disabledItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "item_name is required")
		return
	}

	householdID := auth.HouseholdID(r.Context())
	if err := h.prefStore.EnableItem(householdID, req.ItemName); err != nil {
		h.logger.Error("enable item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("disabled_item", "deleted", 0, map[string]any{
		"item_name": req.ItemName,
	}))
	w.WriteHeader(http.StatusNoContent)
}
