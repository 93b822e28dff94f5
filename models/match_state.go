package models

import "time"

// ApplyAction moves targetID according to action. Both actions first remove
// the target from active, chopped and discovered, so repeating an action
// converges instead of duplicating.
//
// chat: prepend a pending entry to active. A full active list bumps its
// oldest entry to the front of chopped with its status forced to chopped.
//
// chop: prepend a chopped entry to chopped.
func (s *MatchSlots) ApplyAction(targetID, action, imageURL string, now time.Time) (ActionResult, error) {
	if err := ValidateAction(s.UserID, targetID, action); err != nil {
		return ActionResult{}, err
	}

	if imageURL == "" {
		imageURL = s.knownImage(targetID)
	}

	s.Active.Remove(targetID)
	s.Chopped.Remove(targetID)
	s.Discovered.Remove(targetID)

	var result ActionResult
	switch action {
	case ActionChat:
		entry := MatchSlotEntry{UserID: targetID, ImageURL: imageURL, Status: StatusPending, CreatedAt: now}
		if bumped, ok := s.Active.PushFront(entry); ok {
			// A bumped mutual match is downgraded too.
			result.EvictedPriorStatus = bumped.Status
			bumped.Status = StatusChopped
			s.Chopped.PushFront(bumped)
			result.Evicted = &bumped
		}
	case ActionChop:
		s.Chopped.PushFront(MatchSlotEntry{UserID: targetID, ImageURL: imageURL, Status: StatusChopped, CreatedAt: now})
	}

	s.UpdatedAt = now
	result.ActiveNow = s.Active.Items()
	result.ChoppedNow = s.Chopped.Items()
	return result, nil
}

// ValidateAction checks an action request before any state is read.
func ValidateAction(viewerID, targetID, action string) error {
	switch {
	case viewerID == "":
		return NewValidationError("userId", "required")
	case targetID == "":
		return NewValidationError("targetId", "required")
	case targetID == viewerID:
		return NewValidationError("targetId", "cannot act on self")
	case !IsValidAction(action):
		return NewValidationError("action", "must be chat or chop")
	}
	return nil
}

// knownImage finds an image already recorded for targetID in any collection.
func (s *MatchSlots) knownImage(targetID string) string {
	if i := s.Active.IndexOf(targetID); i >= 0 {
		return s.Active.At(i).ImageURL
	}
	if i := s.Chopped.IndexOf(targetID); i >= 0 {
		return s.Chopped.At(i).ImageURL
	}
	if i := s.Discovered.IndexOf(targetID); i >= 0 {
		return s.Discovered.At(i).ImageURL
	}
	return ""
}
