package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"matchmaking_server/middleware"
	"matchmaking_server/models"
	"matchmaking_server/services"
	"matchmaking_server/utils"
)

// MatchOperations is implemented by *services.MatchService.
type MatchOperations interface {
	TriggerRefill(ctx context.Context, seekerID string) (services.RefillResult, error)
	ApplyMatchAction(ctx context.Context, viewerID, targetID, action, imageURL string) (models.ActionResult, error)
	SyncReciprocal(ctx context.Context, viewerID string) (services.SyncReport, error)
	GetSlots(ctx context.Context, viewerID string) (services.SlotsView, error)
}

// MatchController handles HTTP requests for match slot operations
type MatchController struct {
	MatchService MatchOperations
	// RequestTimeout bounds action, sync and listing requests.
	RequestTimeout time.Duration
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService MatchOperations) *MatchController {
	return &MatchController{MatchService: matchService, RequestTimeout: 15 * time.Second}
}

func (c *MatchController) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	if c.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), c.RequestTimeout)
}

// writeServiceError maps service errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrValidation):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotLinked):
		utils.RespondError(w, http.StatusForbidden, "No profile linked to this account")
	default:
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// HandleRefill tops up discovered leads or tells the client to browse.
func (c *MatchController) HandleRefill(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	// The service applies its own search deadline.
	result, err := c.MatchService.TriggerRefill(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Refill failed for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// HandleAction applies chat or chop to a counterpart.
func (c *MatchController) HandleAction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var request MatchActionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("❌ Invalid request payload:", err)
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := request.Validate(); err != nil {
		log.Printf("⚠️ Rejected action from %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}

	ctx, cancel := c.withTimeout(r)
	defer cancel()

	result, err := c.MatchService.ApplyMatchAction(ctx, userID, request.TargetID, request.Action, request.ImageURL)
	if err != nil {
		log.Printf("❌ Action %s on %s failed for %s: %v", request.Action, request.TargetID, userID, err)
		writeServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Action applied",
		"result":  result,
	})
}

// HandleSync reconciles mutual matches for the caller.
func (c *MatchController) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	ctx, cancel := c.withTimeout(r)
	defer cancel()

	if _, err := c.MatchService.SyncReciprocal(ctx, userID); err != nil {
		log.Printf("❌ Sync failed for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Matches synced"})
}

// HandleGetSlots returns the caller's active, chopped and discovered collections.
func (c *MatchController) HandleGetSlots(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	ctx, cancel := c.withTimeout(r)
	defer cancel()

	view, err := c.MatchService.GetSlots(ctx, userID)
	if err != nil {
		log.Printf("❌ Failed to fetch slots for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}
