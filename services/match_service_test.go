package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"matchmaking_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

type matchFixture struct {
	repo     *memSlots
	pool     *stubPool
	profiles *fakeProfiles
	images   *fakeImages
	svc      *MatchService
}

func newMatchFixture() *matchFixture {
	f := &matchFixture{
		repo: newMemSlots(),
		pool: &stubPool{},
		profiles: &fakeProfiles{profiles: map[string]models.SeekerProfile{
			"seeker": testSeeker(),
		}},
		images: &fakeImages{images: map[string]string{}, err: map[string]error{}},
	}
	f.svc = &MatchService{
		Slots:    f.repo,
		Profiles: f.profiles,
		Images:   f.images,
		Search:   newEngine(f.pool),
		Syncer:   &ReciprocitySyncer{Slots: f.repo},
		Now:      func() time.Time { return fixedNow },
	}
	return f
}

func TestTriggerRefill_BrowsesWhenEnoughLeads(t *testing.T) {
	f := newMatchFixture()
	s := models.NewMatchSlots("seeker")
	var leads []models.Lead
	for i := 0; i < models.RefillBrowseThreshold; i++ {
		leads = append(leads, models.Lead{UserID: fmt.Sprintf("l%03d", i)})
	}
	s.RefillDiscovered(leads)
	f.repo.put(s)

	res, err := f.svc.TriggerRefill(context.Background(), "seeker")
	require.NoError(t, err)

	assert.Equal(t, models.RefillActionBrowse, res.Action)
	assert.Nil(t, res.AddedCount)
	assert.Equal(t, models.RefillBrowseThreshold, res.DiscoveredCount)
	assert.Equal(t, 0, f.pool.calls(), "no search below the threshold")
	assert.Equal(t, 0, f.profiles.calls)
}

func TestTriggerRefill_AddsLeadsWithImages(t *testing.T) {
	f := newMatchFixture()
	s := models.NewMatchSlots("seeker")
	_, err := s.ApplyAction("known", models.ActionChat, "", fixedNow)
	require.NoError(t, err)
	f.repo.put(s)

	f.pool.answer = func(PoolFilter) ([]string, error) {
		return []string{"known", "c1", "c2", "noimage", "broken"}, nil
	}
	f.images.images["c1"] = "photos/c1.jpg"
	f.images.images["c2"] = "photos/c2.jpg"
	f.images.err["broken"] = errors.New("s3 down")

	res, err := f.svc.TriggerRefill(context.Background(), "seeker")
	require.NoError(t, err)

	assert.Equal(t, models.RefillActionSearch, res.Action)
	require.NotNil(t, res.AddedCount)
	assert.Equal(t, 2, *res.AddedCount)
	assert.Equal(t, 2, res.DiscoveredCount)

	stored, err := f.repo.Load(context.Background(), "seeker")
	require.NoError(t, err)
	assert.Equal(t, []models.Lead{
		{UserID: "c1", ImageURL: "photos/c1.jpg"},
		{UserID: "c2", ImageURL: "photos/c2.jpg"},
	}, stored.Discovered.Items())
	assert.True(t, stored.Active.Contains("known"), "refill keeps existing collections")
	assert.Contains(t, f.pool.filters[0].Exclude, "known")
}

func TestTriggerRefill_PoolFailureAddsNothing(t *testing.T) {
	f := newMatchFixture()
	f.pool.answer = func(PoolFilter) ([]string, error) { return nil, errors.New("unreachable") }

	res, err := f.svc.TriggerRefill(context.Background(), "seeker")
	require.NoError(t, err)

	assert.Equal(t, models.RefillActionSearch, res.Action)
	require.NotNil(t, res.AddedCount)
	assert.Zero(t, *res.AddedCount)
	assert.Zero(t, f.repo.saves)
}

func TestTriggerRefill_UnlinkedSeeker(t *testing.T) {
	f := newMatchFixture()
	_, err := f.svc.TriggerRefill(context.Background(), "stranger")
	assert.ErrorIs(t, err, models.ErrNotLinked)

	_, err = f.svc.TriggerRefill(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestApplyMatchAction_PersistsState(t *testing.T) {
	f := newMatchFixture()

	res, err := f.svc.ApplyMatchAction(context.Background(), "seeker", "t1", models.ActionChat, "img/t1.jpg")
	require.NoError(t, err)
	require.Len(t, res.ActiveNow, 1)
	assert.Equal(t, fixedNow, res.ActiveNow[0].CreatedAt)

	stored, err := f.repo.Load(context.Background(), "seeker")
	require.NoError(t, err)
	assert.True(t, stored.Active.Contains("t1"))

	_, err = f.svc.ApplyMatchAction(context.Background(), "seeker", "t1", models.ActionChop, "")
	require.NoError(t, err)
	stored, err = f.repo.Load(context.Background(), "seeker")
	require.NoError(t, err)
	assert.False(t, stored.Active.Contains("t1"))
	assert.True(t, stored.Chopped.Contains("t1"))
	assert.Equal(t, "img/t1.jpg", stored.Chopped.At(0).ImageURL)
}

func TestApplyMatchAction_RejectsBeforeLoading(t *testing.T) {
	f := newMatchFixture()
	f.repo.loadErr["seeker"] = errors.New("should not be called")

	_, err := f.svc.ApplyMatchAction(context.Background(), "seeker", "seeker", models.ActionChat, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.svc.ApplyMatchAction(context.Background(), "seeker", "t1", "wink", "")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, f.repo.saves)
}

func TestGetSlots_PresentsImages(t *testing.T) {
	f := newMatchFixture()
	s := models.NewMatchSlots("seeker")
	s.RefillDiscovered([]models.Lead{{UserID: "d1", ImageURL: "photos/d1.jpg"}})
	_, err := s.ApplyAction("a1", models.ActionChat, "photos/a1.jpg", fixedNow)
	require.NoError(t, err)
	f.repo.put(s)

	view, err := f.svc.GetSlots(context.Background(), "seeker")
	require.NoError(t, err)
	require.Len(t, view.Active, 1)
	assert.Equal(t, "https://signed.example/photos/a1.jpg", view.Active[0].ImageURL)
	require.Len(t, view.Discovered, 1)
	assert.Equal(t, "https://signed.example/photos/d1.jpg", view.Discovered[0].ImageURL)
	assert.Empty(t, view.Chopped)

	stored, err := f.repo.Load(context.Background(), "seeker")
	require.NoError(t, err)
	assert.Equal(t, "photos/a1.jpg", stored.Active.At(0).ImageURL, "stored references are not rewritten")
}

func TestSyncReciprocal_RequiresViewer(t *testing.T) {
	f := newMatchFixture()
	_, err := f.svc.SyncReciprocal(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}
