package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"matchmaking_server/middleware"
	"matchmaking_server/models"
	"matchmaking_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatchOps struct {
	refill      services.RefillResult
	err         error
	gotViewer   string
	gotTarget   string
	gotAction   string
	gotImage    string
	actionCalls int
}

func (f *fakeMatchOps) TriggerRefill(ctx context.Context, seekerID string) (services.RefillResult, error) {
	f.gotViewer = seekerID
	return f.refill, f.err
}

func (f *fakeMatchOps) ApplyMatchAction(ctx context.Context, viewerID, targetID, action, imageURL string) (models.ActionResult, error) {
	f.actionCalls++
	f.gotViewer, f.gotTarget, f.gotAction, f.gotImage = viewerID, targetID, action, imageURL
	if f.err != nil {
		return models.ActionResult{}, f.err
	}
	return models.ActionResult{ActiveNow: []models.MatchSlotEntry{{UserID: targetID, Status: models.StatusPending}}}, nil
}

func (f *fakeMatchOps) SyncReciprocal(ctx context.Context, viewerID string) (services.SyncReport, error) {
	f.gotViewer = viewerID
	return services.SyncReport{MutualIDs: []string{"a"}}, f.err
}

func (f *fakeMatchOps) GetSlots(ctx context.Context, viewerID string) (services.SlotsView, error) {
	f.gotViewer = viewerID
	return services.SlotsView{Discovered: []models.Lead{{UserID: "d1"}}}, f.err
}

func authed(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), "viewer"))
}

func TestHandleRefill(t *testing.T) {
	added := 3
	ops := &fakeMatchOps{refill: services.RefillResult{Action: models.RefillActionSearch, AddedCount: &added, DiscoveredCount: 3}}
	rec := httptest.NewRecorder()

	NewMatchController(ops).HandleRefill(rec, authed(http.MethodPost, "/api/match/refill", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "viewer", ops.gotViewer)
	assert.JSONEq(t, `{"action":"matchsearch","addedCount":3,"discoveredCount":3}`, rec.Body.String())
}

func TestHandleRefill_BrowseOmitsAddedCount(t *testing.T) {
	ops := &fakeMatchOps{refill: services.RefillResult{Action: models.RefillActionBrowse, DiscoveredCount: 250}}
	rec := httptest.NewRecorder()

	NewMatchController(ops).HandleRefill(rec, authed(http.MethodPost, "/api/match/refill", ""))
	assert.JSONEq(t, `{"action":"matchbrowse","discoveredCount":250}`, rec.Body.String())
}

func TestHandleAction(t *testing.T) {
	ops := &fakeMatchOps{}
	rec := httptest.NewRecorder()

	NewMatchController(ops).HandleAction(rec, authed(http.MethodPost, "/api/match/action",
		`{"targetId":" t1 ","action":"CHAT","imageUrl":"photos/t1.jpg"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", ops.gotTarget)
	assert.Equal(t, models.ActionChat, ops.gotAction)
	assert.Equal(t, "photos/t1.jpg", ops.gotImage)

	var body struct {
		Result models.ActionResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Result.ActiveNow, 1)
	assert.Equal(t, "t1", body.Result.ActiveNow[0].UserID)
}

func TestHandleAction_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"targetId":`, "Invalid request payload"},
		{"missing target", `{"action":"chat"}`, "targetId"},
		{"unknown action", `{"targetId":"t1","action":"superlike"}`, "action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := &fakeMatchOps{}
			rec := httptest.NewRecorder()
			NewMatchController(ops).HandleAction(rec, authed(http.MethodPost, "/api/match/action", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Zero(t, ops.actionCalls)
		})
	}
}

func TestHandleAction_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"self target", models.NewValidationError("targetId", "cannot act on self"), http.StatusBadRequest},
		{"not linked", models.ErrNotLinked, http.StatusForbidden},
		{"storage", errors.New("dynamo down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := &fakeMatchOps{err: tt.err}
			rec := httptest.NewRecorder()
			NewMatchController(ops).HandleAction(rec, authed(http.MethodPost, "/api/match/action", `{"targetId":"t1","action":"chop"}`))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandleSyncAndSlots(t *testing.T) {
	ops := &fakeMatchOps{}
	c := NewMatchController(ops)

	rec := httptest.NewRecorder()
	c.HandleSync(rec, authed(http.MethodPost, "/api/match/sync", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Matches synced"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c.HandleGetSlots(rec, authed(http.MethodGet, "/api/match/slots", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var view services.SlotsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []models.Lead{{UserID: "d1"}}, view.Discovered)
}

func TestMatchActionRequest_Validate(t *testing.T) {
	req := MatchActionRequest{TargetID: "t1", Action: "Chop "}
	require.NoError(t, req.Validate())
	assert.Equal(t, models.ActionChop, req.Action)

	req = MatchActionRequest{TargetID: "  ", Action: "chat"}
	err := req.Validate()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "targetId", verr.Field)
	assert.Equal(t, "required", verr.Reason)
}
