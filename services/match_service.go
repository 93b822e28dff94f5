package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"matchmaking_server/models"

	"golang.org/x/sync/errgroup"
)

// RefillResult is returned by TriggerRefill.
type RefillResult struct {
	Action          string `json:"action"`
	AddedCount      *int   `json:"addedCount,omitempty"`
	DiscoveredCount int    `json:"discoveredCount"`
}

// SlotsView is the presentable state of a user's collections.
type SlotsView struct {
	Active     []models.MatchSlotEntry `json:"active"`
	Chopped    []models.MatchSlotEntry `json:"chopped"`
	Discovered []models.Lead           `json:"discovered"`
}

// MatchService exposes the refill, action, sync and listing operations.
type MatchService struct {
	Slots    SlotRepository
	Profiles ProfileSource
	Images   ImageLookup
	Search   *CandidateSearchEngine
	Syncer   *ReciprocitySyncer

	// RefillTimeout bounds the candidate search of one refill.
	RefillTimeout time.Duration
	// ImageConcurrency bounds parallel image lookups during a refill.
	ImageConcurrency int
	Now              func() time.Time
}

func (s *MatchService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// TriggerRefill tops up the seeker's discovered leads unless enough are
// already waiting. Search failures yield zero added leads, not an error.
func (s *MatchService) TriggerRefill(ctx context.Context, seekerID string) (RefillResult, error) {
	if seekerID == "" {
		return RefillResult{}, models.NewValidationError("userId", "required")
	}

	slots, err := s.Slots.Load(ctx, seekerID)
	if err != nil {
		return RefillResult{}, err
	}
	if slots.Discovered.Len() >= models.RefillBrowseThreshold {
		refillOutcomes.WithLabelValues(models.RefillActionBrowse).Inc()
		log.Printf("🔍 %s has %d leads waiting, browsing instead of searching", seekerID, slots.Discovered.Len())
		return RefillResult{Action: models.RefillActionBrowse, DiscoveredCount: slots.Discovered.Len()}, nil
	}

	seeker, err := s.Profiles.GetSeekerProfile(ctx, seekerID)
	if err != nil {
		return RefillResult{}, err
	}
	seeker.UserID = seekerID

	needed := models.DiscoveredCapacity - slots.Discovered.Len()
	ids := s.search(ctx, seeker, slots.ExclusionSet(), needed)
	leads := s.resolveLeads(ctx, ids)

	added := 0
	if len(leads) > 0 {
		// Reload so leads and actions written during the search are kept.
		current, err := s.Slots.Load(ctx, seekerID)
		if err != nil {
			return RefillResult{}, err
		}
		added = current.RefillDiscovered(leads)
		if added > 0 {
			current.UpdatedAt = s.now()
			if err := s.Slots.Save(ctx, current); err != nil {
				return RefillResult{}, err
			}
		}
		slots = current
	}

	refillOutcomes.WithLabelValues(models.RefillActionSearch).Inc()
	log.Printf("✅ Refill for %s added %d leads (%d found, %d with images)", seekerID, added, len(ids), len(leads))
	return RefillResult{Action: models.RefillActionSearch, AddedCount: &added, DiscoveredCount: slots.Discovered.Len()}, nil
}

// search runs the engine under the refill deadline and absorbs pool failure.
func (s *MatchService) search(ctx context.Context, seeker models.SeekerProfile, exclude map[string]struct{}, needed int) []string {
	searchCtx := ctx
	if s.RefillTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.RefillTimeout)
		defer cancel()
	}
	ids, err := s.Search.FindCandidates(searchCtx, seeker, exclude, needed)
	if err != nil {
		refillOutcomes.WithLabelValues("failed").Inc()
		log.Printf("❌ Candidate search for %s failed, adding nothing: %v", seeker.UserID, err)
		return nil
	}
	return ids
}

// resolveLeads attaches a main image to each id, dropping ids without one.
// Order of ids is preserved.
func (s *MatchService) resolveLeads(ctx context.Context, ids []string) []models.Lead {
	if len(ids) == 0 {
		return nil
	}
	images := make([]string, len(ids))
	var mu sync.Mutex
	missing := 0

	g, gCtx := errgroup.WithContext(ctx)
	limit := s.ImageConcurrency
	if limit <= 0 {
		limit = 8
	}
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			img, err := s.Images.MainImageFor(gCtx, id)
			if err != nil || img == "" {
				mu.Lock()
				missing++
				mu.Unlock()
				return nil
			}
			images[i] = img
			return nil
		})
	}
	_ = g.Wait()

	leads := make([]models.Lead, 0, len(ids)-missing)
	for i, id := range ids {
		if images[i] != "" {
			leads = append(leads, models.Lead{UserID: id, ImageURL: images[i]})
		}
	}
	return leads
}

// ApplyMatchAction applies chat or chop against the viewer's collections.
func (s *MatchService) ApplyMatchAction(ctx context.Context, viewerID, targetID, action, imageURL string) (models.ActionResult, error) {
	if err := models.ValidateAction(viewerID, targetID, action); err != nil {
		return models.ActionResult{}, err
	}

	slots, err := s.Slots.Load(ctx, viewerID)
	if err != nil {
		return models.ActionResult{}, err
	}
	result, err := slots.ApplyAction(targetID, action, imageURL, s.now())
	if err != nil {
		return models.ActionResult{}, err
	}
	if err := s.Slots.Save(ctx, slots); err != nil {
		return models.ActionResult{}, err
	}

	matchActions.WithLabelValues(action).Inc()
	if result.Evicted != nil {
		bumpedEntries.Inc()
		log.Printf("⚠️ Active slots of %s full, bumped %s (was %s) into chopped",
			viewerID, result.Evicted.UserID, result.EvictedPriorStatus)
	}
	log.Printf("✅ %s applied %s on %s", viewerID, action, targetID)
	return result, nil
}

// SyncReciprocal runs a reciprocity pass for viewerID.
func (s *MatchService) SyncReciprocal(ctx context.Context, viewerID string) (SyncReport, error) {
	if viewerID == "" {
		return SyncReport{}, models.NewValidationError("userId", "required")
	}
	return s.Syncer.Sync(ctx, viewerID)
}

// GetSlots returns the viewer's collections with client-loadable image URLs.
func (s *MatchService) GetSlots(ctx context.Context, viewerID string) (SlotsView, error) {
	if viewerID == "" {
		return SlotsView{}, models.NewValidationError("userId", "required")
	}
	slots, err := s.Slots.Load(ctx, viewerID)
	if err != nil {
		return SlotsView{}, fmt.Errorf("failed to load slots: %w", err)
	}

	view := SlotsView{
		Active:     slots.Active.Items(),
		Chopped:    slots.Chopped.Items(),
		Discovered: slots.Discovered.Items(),
	}
	if s.Images != nil {
		for i := range view.Active {
			view.Active[i].ImageURL = s.Images.PresentURL(ctx, view.Active[i].ImageURL)
		}
		for i := range view.Chopped {
			view.Chopped[i].ImageURL = s.Images.PresentURL(ctx, view.Chopped[i].ImageURL)
		}
		for i := range view.Discovered {
			view.Discovered[i].ImageURL = s.Images.PresentURL(ctx, view.Discovered[i].ImageURL)
		}
	}
	return view, nil
}
