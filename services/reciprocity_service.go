package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"matchmaking_server/models"

	"golang.org/x/sync/errgroup"
)

// SyncReport summarizes one reciprocity pass.
type SyncReport struct {
	MutualIDs           []string `json:"mutualIds"`
	NonMutualIDs        []string `json:"nonMutualIds"`
	SkippedIDs          []string `json:"skippedIds,omitempty"`
	ViewerWriteFailures int      `json:"viewerWriteFailures"`
	CounterpartFailures int      `json:"counterpartFailures"`
}

// ReciprocitySyncer derives mutual matches from two independently owned
// active collections and writes the result back to both sides.
type ReciprocitySyncer struct {
	Slots       SlotRepository
	Concurrency int
}

// counterpartView is what the viewer needs to know about one counterpart.
type counterpartView struct {
	loaded bool
	// index of the entry referencing the viewer in the counterpart's active
	// collection, -1 when absent
	index  int
	status string
}

// reciprocityPlan is the side-effect-free outcome of classification.
type reciprocityPlan struct {
	mutual        []string
	nonMutual     []string
	skipped       []string
	viewerUpdates []StatusUpdate
	// counterpart id -> guarded update of its entry referencing the viewer
	counterpartUpdates map[string]StatusUpdate
}

// planReciprocity classifies every live viewer entry. Chopped entries are
// never touched, and counterparts that could not be loaded are skipped.
func planReciprocity(viewerID string, viewerActive []models.MatchSlotEntry, views map[string]counterpartView) reciprocityPlan {
	p := reciprocityPlan{counterpartUpdates: map[string]StatusUpdate{}}
	for i, e := range viewerActive {
		if e.Status == models.StatusChopped {
			continue
		}
		v := views[e.UserID]
		if !v.loaded {
			p.skipped = append(p.skipped, e.UserID)
			continue
		}

		if v.index >= 0 && v.status != models.StatusChopped {
			p.mutual = append(p.mutual, e.UserID)
			if e.Status != models.StatusYes {
				p.viewerUpdates = append(p.viewerUpdates, StatusUpdate{Index: i, CounterpartID: e.UserID, Status: models.StatusYes})
			}
			if v.status != models.StatusYes {
				p.counterpartUpdates[e.UserID] = StatusUpdate{Index: v.index, CounterpartID: viewerID, Status: models.StatusYes}
			}
			continue
		}

		p.nonMutual = append(p.nonMutual, e.UserID)
		if e.Status != models.StatusPending {
			p.viewerUpdates = append(p.viewerUpdates, StatusUpdate{Index: i, CounterpartID: e.UserID, Status: models.StatusPending})
		}
	}
	return p
}

// Sync reconciles viewerID's live active entries with each counterpart.
// Only a failure to load the viewer is returned; counterpart load and write
// failures are logged and reported.
func (s *ReciprocitySyncer) Sync(ctx context.Context, viewerID string) (SyncReport, error) {
	viewer, err := s.Slots.Load(ctx, viewerID)
	if err != nil {
		return SyncReport{}, fmt.Errorf("failed to load viewer slots: %w", err)
	}
	active := viewer.Active.Items()

	views := s.loadCounterparts(ctx, viewerID, active)
	plan := planReciprocity(viewerID, active, views)

	report := SyncReport{
		MutualIDs:    plan.mutual,
		NonMutualIDs: plan.nonMutual,
		SkippedIDs:   plan.skipped,
	}
	syncClassified.WithLabelValues("mutual").Add(float64(len(plan.mutual)))
	syncClassified.WithLabelValues("nonmutual").Add(float64(len(plan.nonMutual)))
	syncClassified.WithLabelValues("skipped").Add(float64(len(plan.skipped)))

	if len(plan.viewerUpdates) > 0 {
		if err := s.Slots.SetStatuses(ctx, viewerID, plan.viewerUpdates); err != nil {
			report.ViewerWriteFailures++
			syncWriteFailures.WithLabelValues("viewer").Inc()
			log.Printf("❌ Reciprocity viewer update for %s partially failed: %v", viewerID, err)
		}
	}

	report.CounterpartFailures = s.writeCounterparts(ctx, viewerID, plan.counterpartUpdates)

	log.Printf("✅ Reciprocity sync for %s: %d mutual, %d non-mutual, %d skipped, %d counterpart failures",
		viewerID, len(plan.mutual), len(plan.nonMutual), len(plan.skipped), report.CounterpartFailures)
	return report, nil
}

func (s *ReciprocitySyncer) limit() int {
	if s.Concurrency <= 0 {
		return 1
	}
	return s.Concurrency
}

// loadCounterparts reads every live counterpart's active collection in parallel.
func (s *ReciprocitySyncer) loadCounterparts(ctx context.Context, viewerID string, active []models.MatchSlotEntry) map[string]counterpartView {
	var mu sync.Mutex
	views := make(map[string]counterpartView, len(active))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for _, e := range active {
		if e.Status == models.StatusChopped {
			continue
		}
		counterpartID := e.UserID
		g.Go(func() error {
			slots, err := s.Slots.Load(gCtx, counterpartID)
			if err != nil {
				log.Printf("⚠️ Could not load slots of counterpart %s: %v", counterpartID, err)
				return nil
			}
			v := counterpartView{loaded: true, index: slots.Active.IndexOf(viewerID)}
			if v.index >= 0 {
				v.status = slots.Active.At(v.index).Status
			}
			mu.Lock()
			views[counterpartID] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return views
}

// writeCounterparts applies each counterpart update independently and
// returns how many failed.
func (s *ReciprocitySyncer) writeCounterparts(ctx context.Context, viewerID string, updates map[string]StatusUpdate) int {
	var (
		mu       sync.Mutex
		failures int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for counterpartID, u := range updates {
		counterpartID, u := counterpartID, u
		g.Go(func() error {
			if err := s.Slots.SetStatuses(gCtx, counterpartID, []StatusUpdate{u}); err != nil {
				syncWriteFailures.WithLabelValues("counterpart").Inc()
				log.Printf("❌ Failed to mark %s as mutual for %s: %v", viewerID, counterpartID, err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}
