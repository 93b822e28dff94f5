package services

import (
	"context"
	"fmt"
	"log"

	"matchmaking_server/models"
)

const (
	minSampleSize = 20
	maxSampleSize = 150
)

// sampleSize is min(max(2*remaining, 20), 150).
func sampleSize(remaining int) int {
	n := 2 * remaining
	if n < minSampleSize {
		n = minSampleSize
	}
	if n > maxSampleSize {
		n = maxSampleSize
	}
	return n
}

// CandidateSearchEngine finds new candidates by widening location, then age,
// then health filters until enough are found.
type CandidateSearchEngine struct {
	Pool    ProfilePool
	Sampler Sampler
	// ScanLimit bounds how many matching ids one pool query may return.
	ScanLimit int
}

// NewCandidateSearchEngine returns an engine sampling with RandomSampler.
func NewCandidateSearchEngine(pool ProfilePool, scanLimit int) *CandidateSearchEngine {
	return &CandidateSearchEngine{Pool: pool, Sampler: RandomSampler{}, ScanLimit: scanLimit}
}

type searchStep struct {
	location string
	minAge   int
	maxAge   int
	tier     models.HealthTier
}

func (s searchStep) String() string {
	return fmt.Sprintf("%s/%d-%d/%s", s.location, s.minAge, s.maxAge, s.tier)
}

// plan lists every (stage, band, tier) combination in widening order.
func plan(seeker models.SeekerProfile) []searchStep {
	type band struct{ min, max int }
	bands := []band{{}}
	if seeker.Age > 0 {
		bands = bands[:0]
		for _, w := range models.AgeBands {
			lo := seeker.Age - w
			if lo < 1 {
				lo = 1
			}
			bands = append(bands, band{lo, seeker.Age + w})
		}
	}

	tiers := []models.HealthTier{models.HealthTierAny}
	if seeker.HasCondition() {
		tiers = []models.HealthTier{models.HealthTierSame, models.HealthTierAccepts, models.HealthTierAny}
	}

	var steps []searchStep
	for _, stage := range models.LocationStages {
		if stage != models.LocationNone && seeker.LocationValue(stage) == "" {
			continue
		}
		for _, b := range bands {
			for _, t := range tiers {
				steps = append(steps, searchStep{location: stage, minAge: b.min, maxAge: b.max, tier: t})
			}
		}
	}
	return steps
}

// FindCandidates returns up to needed distinct ids, none in exclude and none
// equal to the seeker. exclude is updated in place with every returned id.
//
// A failing step is skipped. ErrPoolUnavailable is returned only when every
// attempted step failed. A cancelled ctx stops the search and returns what was
// found so far without error.
func (e *CandidateSearchEngine) FindCandidates(ctx context.Context, seeker models.SeekerProfile, exclude map[string]struct{}, needed int) ([]string, error) {
	if needed <= 0 {
		return nil, nil
	}
	if exclude == nil {
		exclude = make(map[string]struct{})
	}
	exclude[seeker.UserID] = struct{}{}

	var (
		found    []string
		attempts int
		failures int
	)

	for _, step := range plan(seeker) {
		if len(found) >= needed {
			break
		}
		if ctx.Err() != nil {
			log.Printf("⚠️ Search for %s stopped at %s: %v", seeker.UserID, step, ctx.Err())
			break
		}

		filter := PoolFilter{
			OrientationSelf:   seeker.OrientationSelf,
			OrientationWanted: seeker.OrientationWanted,
			LocationField:     step.location,
			LocationValue:     seeker.LocationValue(step.location),
			MinAge:            step.minAge,
			MaxAge:            step.maxAge,
			HealthTier:        step.tier,
			HealthCondition:   seeker.HealthCondition,
			Exclude:           exclude,
			Limit:             e.ScanLimit,
		}

		attempts++
		ids, err := e.Pool.Query(ctx, filter)
		if err != nil {
			if ctx.Err() != nil {
				attempts--
				log.Printf("⚠️ Search for %s cancelled during %s", seeker.UserID, step)
				break
			}
			failures++
			poolQueries.WithLabelValues("error").Inc()
			log.Printf("⚠️ Pool query %s failed for %s: %v", step, seeker.UserID, err)
			continue
		}
		poolQueries.WithLabelValues("ok").Inc()

		for _, id := range e.Sampler.Sample(ids, sampleSize(needed-len(found))) {
			if _, seen := exclude[id]; seen {
				continue
			}
			exclude[id] = struct{}{}
			found = append(found, id)
			if len(found) >= needed {
				break
			}
		}
	}

	if attempts > 0 && failures == attempts {
		return nil, fmt.Errorf("all %d pool queries failed: %w", attempts, models.ErrPoolUnavailable)
	}
	candidatesFound.Observe(float64(len(found)))
	return found, nil
}
