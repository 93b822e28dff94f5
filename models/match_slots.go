package models

import "time"

// MatchSlotEntry is one counterpart reference in a user's active or chopped collection.
type MatchSlotEntry struct {
	UserID    string    `dynamodbav:"userId" json:"userId"`
	ImageURL  string    `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status    string    `dynamodbav:"status" json:"status"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// Lead is a discovered candidate not yet acted on.
type Lead struct {
	UserID   string `dynamodbav:"userId" json:"userId"`
	ImageURL string `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

func entryKey(e MatchSlotEntry) string { return e.UserID }
func leadKey(l Lead) string            { return l.UserID }

// MatchSlots holds the three bounded collections of one user.
//
// Active and Chopped are most-recent-first. Discovered is kept in append
// order, oldest first.
type MatchSlots struct {
	UserID     string
	Active     *BoundedList[MatchSlotEntry]
	Chopped    *BoundedList[MatchSlotEntry]
	Discovered *BoundedList[Lead]
	UpdatedAt  time.Time
}

// NewMatchSlots returns empty collections for userID.
func NewMatchSlots(userID string) *MatchSlots {
	return &MatchSlots{
		UserID:     userID,
		Active:     NewBoundedList(ActiveCapacity, entryKey),
		Chopped:    NewBoundedList(ChoppedCapacity, entryKey),
		Discovered: NewBoundedList(DiscoveredCapacity, leadKey),
	}
}

// RestoreMatchSlots rebuilds collections from stored arrays, healing any
// invariant violation: a counterpart seen in active is dropped from chopped,
// duplicates keep their first occurrence, chopped-status entries found in
// active stay where they are, and oversized arrays lose their oldest items.
func RestoreMatchSlots(userID string, active, chopped []MatchSlotEntry, discovered []Lead) *MatchSlots {
	s := NewMatchSlots(userID)
	seen := make(map[string]struct{}, len(active)+len(chopped))

	for _, e := range active {
		if _, dup := seen[e.UserID]; dup || e.UserID == "" {
			continue
		}
		seen[e.UserID] = struct{}{}
		s.Active.items = append(s.Active.items, e)
	}
	s.Active.truncateBack()

	for _, e := range chopped {
		if _, dup := seen[e.UserID]; dup || e.UserID == "" {
			continue
		}
		seen[e.UserID] = struct{}{}
		e.Status = StatusChopped
		s.Chopped.items = append(s.Chopped.items, e)
	}
	s.Chopped.truncateBack()

	leadSeen := make(map[string]struct{}, len(discovered))
	for _, l := range discovered {
		if _, dup := leadSeen[l.UserID]; dup || l.UserID == "" {
			continue
		}
		leadSeen[l.UserID] = struct{}{}
		s.Discovered.items = append(s.Discovered.items, l)
	}
	s.Discovered.trimFront()

	return s
}

// ExclusionSet returns every counterpart id the user already knows about,
// plus the user's own id.
func (s *MatchSlots) ExclusionSet() map[string]struct{} {
	ex := make(map[string]struct{}, 1+s.Active.Len()+s.Chopped.Len()+s.Discovered.Len())
	ex[s.UserID] = struct{}{}
	for _, e := range s.Active.items {
		ex[e.UserID] = struct{}{}
	}
	for _, e := range s.Chopped.items {
		ex[e.UserID] = struct{}{}
	}
	for _, l := range s.Discovered.items {
		ex[l.UserID] = struct{}{}
	}
	return ex
}

// RefillDiscovered appends leads not already discovered and returns how many
// were added. Overflow drops the oldest leads.
func (s *MatchSlots) RefillDiscovered(leads []Lead) int {
	added := 0
	for _, l := range leads {
		if l.UserID == "" || l.UserID == s.UserID || s.Discovered.Contains(l.UserID) {
			continue
		}
		s.Discovered.Append(l)
		added++
	}
	return added
}

// ActionResult reports the collections after an action.
type ActionResult struct {
	ActiveNow  []MatchSlotEntry `json:"activeNow"`
	ChoppedNow []MatchSlotEntry `json:"choppedNow"`
	Evicted    *MatchSlotEntry  `json:"evicted,omitempty"`
	// EvictedPriorStatus is the evicted entry's status before the bump.
	EvictedPriorStatus string `json:"evictedPriorStatus,omitempty"`
}
