package services

import (
	"context"
	"math/rand"

	"matchmaking_server/models"
)

// PoolFilter is one (location stage, age band, health tier) query.
type PoolFilter struct {
	// Candidates must have self == OrientationWanted and wanted == OrientationSelf.
	OrientationSelf   string
	OrientationWanted string

	// LocationField is one of the models.Location* stages; LocationNone or ""
	// disables the location filter.
	LocationField string
	LocationValue string

	// MinAge and MaxAge are inclusive; both zero disables the age filter.
	MinAge int
	MaxAge int

	HealthTier      models.HealthTier
	HealthCondition string

	Exclude map[string]struct{}

	// Limit bounds how many matching ids the pool returns.
	Limit int
}

// HasAgeFilter reports whether the filter restricts age.
func (f PoolFilter) HasAgeFilter() bool { return f.MinAge > 0 || f.MaxAge > 0 }

// HasLocationFilter reports whether the filter restricts location.
func (f PoolFilter) HasLocationFilter() bool {
	return f.LocationField != "" && f.LocationField != models.LocationNone
}

// Excluded reports whether id is in the exclusion set.
func (f PoolFilter) Excluded(id string) bool {
	_, ok := f.Exclude[id]
	return ok
}

// Matches evaluates the filter against a profile. Pool implementations that
// cannot push a clause to the store use it to finish filtering client-side.
func (f PoolFilter) Matches(p models.SeekerProfile) bool {
	if p.UserID == "" || f.Excluded(p.UserID) {
		return false
	}
	if p.OrientationSelf != f.OrientationWanted || p.OrientationWanted != f.OrientationSelf {
		return false
	}
	if f.HasLocationFilter() && p.LocationValue(f.LocationField) != f.LocationValue {
		return false
	}
	if f.HasAgeFilter() && (p.Age < f.MinAge || p.Age > f.MaxAge) {
		return false
	}
	switch f.HealthTier {
	case models.HealthTierSame:
		return p.HealthCondition == f.HealthCondition
	case models.HealthTierAccepts:
		return p.AcceptsCondition(f.HealthCondition)
	}
	return true
}

// ProfilePool is the searchable candidate set.
type ProfilePool interface {
	// Query returns ids of profiles matching filter, at most filter.Limit.
	Query(ctx context.Context, filter PoolFilter) ([]string, error)
}

// Sampler draws n ids from ids without replacement.
type Sampler interface {
	Sample(ids []string, n int) []string
}

// RandomSampler samples uniformly with math/rand/v2.
type RandomSampler struct{}

// Sample runs a partial Fisher-Yates shuffle over a copy of ids.
func (RandomSampler) Sample(ids []string, n int) []string {
	if n >= len(ids) {
		n = len(ids)
	}
	pool := make([]string, len(ids))
	copy(pool, ids)
	for i := 0; i < n; i++ {
		j := i + rand.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
