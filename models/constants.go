package models

// Match slot statuses
const (
	StatusPending = "pending"
	StatusYes     = "yes"
	StatusChopped = "chopped"
)

// Match actions a viewer can take on a counterpart
const (
	ActionChat = "chat"
	ActionChop = "chop"
)

// Refill outcomes returned to the caller
const (
	RefillActionBrowse = "matchbrowse"
	RefillActionSearch = "matchsearch"
)

// Collection capacities
const (
	ActiveCapacity     = 50
	ChoppedCapacity    = 500
	DiscoveredCapacity = 500

	// RefillBrowseThreshold is the discovered size at which a refill is skipped.
	RefillBrowseThreshold = 200
)

// Attribute names of the per-user slot document
const (
	AttrUserID       = "userId"
	AttrActive       = "matchArray"
	AttrChopped      = "choppedMatchArray"
	AttrDiscovered   = "pendingMatchArray"
	AttrUpdatedAt    = "updatedAt"
	AttrEntryStatus  = "status"
	AttrEntryUserID  = "userId"
	AttrProfilePhoto = "photos"
)

// Default table names, overridable through config
const (
	MatchSlotsTable   = "MatchSlots"
	UserProfilesTable = "Users"
	UserAuthIndex     = "authId-index"
)

// IsValidStatus reports whether s is a known slot status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusYes, StatusChopped:
		return true
	}
	return false
}

// IsValidAction reports whether a is a known match action.
func IsValidAction(a string) bool {
	return a == ActionChat || a == ActionChop
}
