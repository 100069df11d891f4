package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maplefay/homeplate/internal/auth"
	"github.com/maplefay/homeplate/internal/membership"
	"github.com/maplefay/homeplate/internal/store"
	ws "github.com/maplefay/homeplate/internal/websocket"
)

type HouseholdHandler struct {
	service         *membership.Service
	householdStore  *store.HouseholdStore
	invitationStore *store.InvitationStore
	hub             *ws.Hub
	logger          *slog.Logger
}

func NewHouseholdHandler(
	svc *membership.Service,
	hs *store.HouseholdStore,
	is *store.InvitationStore,
	hub *ws.Hub,
	logger *slog.Logger,
) *HouseholdHandler {
	return &HouseholdHandler{
		service:         svc,
		householdStore:  hs,
		invitationStore: is,
		hub:             hub,
		logger:          logger,
	}
}

// Get returns the caller's household, membership, and member list, or 404
// when they belong to none.
func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	household, member, err := h.service.Membership(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeMembershipError(w, err)
		return
	}
	if household == nil {
		writeError(w, http.StatusNotFound, "no household")
		return
	}

	members, err := h.householdStore.ListMembers(household.ID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"household":  household,
		"membership": member,
		"members":    members,
	})
}

type createHouseholdRequest struct {
	Name string `json:"name"`
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	prevHousehold := auth.HouseholdID(r.Context())
	household, err := h.service.CreateHousehold(r.Context(), auth.UserID(r.Context()), req.Name)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	if prevHousehold != 0 {
		h.hub.Broadcast(prevHousehold, ws.NewMessage("member", "left", auth.UserID(r.Context()), nil))
	}
	writeJSON(w, http.StatusCreated, household)
}

// Invite issues (or re-returns) the household's join code. Owner only.
func (h *HouseholdHandler) Invite(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	inv, err := h.service.IssueInvite(r.Context(), ac.HouseholdID, ac.UserID)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      inv.Token,
		"expires_at": inv.ExpiresAt,
	})
}

// ListInvites returns the household's invitations with expiry computed at
// read time, since nothing sweeps the stored status column.
func (h *HouseholdHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.invitationStore.ListByHousehold(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list invitations", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now().UTC()
	out := make([]map[string]any, 0, len(invites))
	for i := range invites {
		inv := &invites[i]
		out = append(out, map[string]any{
			"id":          inv.ID,
			"token":       inv.Token,
			"status":      inv.EffectiveStatus(now),
			"expires_at":  inv.ExpiresAt,
			"accepted_by": inv.AcceptedBy,
			"accepted_at": inv.AcceptedAt,
			"created_at":  inv.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Join accepts an invite code from the URL path and moves the caller into
// its household.
func (h *HouseholdHandler) Join(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	userID := auth.UserID(r.Context())
	prevHousehold := auth.HouseholdID(r.Context())

	result, err := h.service.AcceptInvite(r.Context(), token, userID)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	if !result.AlreadyMember {
		if prevHousehold != 0 {
			h.hub.Broadcast(prevHousehold, ws.NewMessage("member", "left", userID, nil))
		}
		h.hub.Broadcast(result.Household.ID, ws.NewMessage("member", "joined", userID, map[string]any{
			"household_id": result.Household.ID,
		}))
	}
	writeJSON(w, http.StatusOK, result)
}

// Leave removes the caller from their household, deleting the household
// outright if they were its last member.
func (h *HouseholdHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	householdID := auth.HouseholdID(r.Context())

	result, err := h.service.Leave(r.Context(), userID)
	if err != nil {
		writeMembershipError(w, err)
		return
	}

	if result.CleanedUp {
		h.hub.Broadcast(householdID, ws.NewMessage("household", "deleted", householdID, nil))
	} else {
		h.hub.Broadcast(householdID, ws.NewMessage("member", "left", userID, nil))
	}
	writeJSON(w, http.StatusOK, result)
}

// Update renames the household. Owner only.
func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !auth.IsOwner(r.Context()) {
		writeError(w, http.StatusForbidden, membership.ErrPermissionDenied.Error())
		return
	}

	var req createHouseholdRequest
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
	household, err := h.householdStore.Update(householdID, req.Name)
	if err != nil {
		h.logger.Error("update household", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(householdID, ws.NewMessage("household", "updated", householdID, map[string]any{
		"name": household.Name,
	}))
	writeJSON(w, http.StatusOK, household)
}
