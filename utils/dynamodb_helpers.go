package utils

import (
	"fmt"
	"strconv"
	"time"

	"matchmaking_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractFirstString returns the first non-empty string among fields.
func ExtractFirstString(item map[string]types.AttributeValue, fields ...string) string {
	for _, f := range fields {
		if v := ExtractString(item, f); v != "" {
			return v
		}
	}
	return ""
}

// ExtractInt extracts a number attribute, accepting numeric strings too.
func ExtractInt(item map[string]types.AttributeValue, field string) int {
	attr, ok := item[field]
	if !ok {
		return 0
	}
	var raw string
	switch v := attr.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	default:
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

// ExtractBool extracts a boolean attribute, accepting "true"/"false" strings too.
func ExtractBool(item map[string]types.AttributeValue, field string) bool {
	switch v := item[field].(type) {
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberS:
		b, _ := strconv.ParseBool(v.Value)
		return b
	}
	return false
}

// ExtractFirstPhoto extracts the first photo URL from the "photos" attribute
func ExtractFirstPhoto(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if photos, ok := attr.(*types.AttributeValueMemberL); ok && len(photos.Value) > 0 {
			if photo, ok := photos.Value[0].(*types.AttributeValueMemberS); ok {
				return photo.Value
			}
		}
	}
	return ""
}

// extractTime reads an RFC3339 string or an epoch-millis number.
func extractTime(item map[string]types.AttributeValue, fields ...string) time.Time {
	for _, f := range fields {
		switch v := item[f].(type) {
		case *types.AttributeValueMemberS:
			if t, err := time.Parse(time.RFC3339Nano, v.Value); err == nil {
				return t.UTC()
			}
		case *types.AttributeValueMemberN:
			if ms, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
				return time.UnixMilli(ms).UTC()
			}
		}
	}
	return time.Time{}
}

// Historical field names written by older clients
var (
	entryUserFields   = []string{"userId", "matchedUserId", "matchUserId"}
	entryStatusFields = []string{"status", "matchStatus"}
	entryImageFields  = []string{"imageUrl", "imageURL", "image"}
	entryTimeFields   = []string{"createdAt", "timestamp"}
)

// NormalizeSlotEntry converts a stored list element into a MatchSlotEntry.
// It returns false when the element has no counterpart id.
func NormalizeSlotEntry(av types.AttributeValue) (models.MatchSlotEntry, bool) {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		// Very old arrays stored bare user ids
		if s, ok := av.(*types.AttributeValueMemberS); ok && s.Value != "" {
			return models.MatchSlotEntry{UserID: s.Value, Status: models.StatusPending}, true
		}
		return models.MatchSlotEntry{}, false
	}

	entry := models.MatchSlotEntry{
		UserID:    ExtractFirstString(m.Value, entryUserFields...),
		ImageURL:  ExtractFirstString(m.Value, entryImageFields...),
		Status:    ExtractFirstString(m.Value, entryStatusFields...),
		CreatedAt: extractTime(m.Value, entryTimeFields...),
	}
	if entry.UserID == "" {
		return models.MatchSlotEntry{}, false
	}
	if !models.IsValidStatus(entry.Status) {
		entry.Status = models.StatusPending
	}
	return entry, true
}

// NormalizeLead converts a stored discovered element into a Lead.
func NormalizeLead(av types.AttributeValue) (models.Lead, bool) {
	entry, ok := NormalizeSlotEntry(av)
	if !ok {
		return models.Lead{}, false
	}
	return models.Lead{UserID: entry.UserID, ImageURL: entry.ImageURL}, true
}

// NormalizeSlotEntries converts a stored list attribute, skipping unusable elements.
func NormalizeSlotEntries(item map[string]types.AttributeValue, field string) []models.MatchSlotEntry {
	list, ok := item[field].(*types.AttributeValueMemberL)
	if !ok {
		return nil
	}
	out := make([]models.MatchSlotEntry, 0, len(list.Value))
	for _, av := range list.Value {
		if e, ok := NormalizeSlotEntry(av); ok {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeLeads converts a stored discovered list attribute.
func NormalizeLeads(item map[string]types.AttributeValue, field string) []models.Lead {
	list, ok := item[field].(*types.AttributeValueMemberL)
	if !ok {
		return nil
	}
	out := make([]models.Lead, 0, len(list.Value))
	for _, av := range list.Value {
		if l, ok := NormalizeLead(av); ok {
			out = append(out, l)
		}
	}
	return out
}

// EncodeSlotEntries encodes a collection as a list of canonical entry maps.
func EncodeSlotEntries(entries []models.MatchSlotEntry) (types.AttributeValue, error) {
	canonical := make([]models.MatchSlotEntry, 0, len(entries))
	for _, e := range entries {
		e.CreatedAt = e.CreatedAt.UTC()
		canonical = append(canonical, e)
	}
	av, err := attributevalue.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slot entries: %w", err)
	}
	return av, nil
}

// EncodeLeads encodes the discovered collection as a list attribute.
func EncodeLeads(leads []models.Lead) (types.AttributeValue, error) {
	if leads == nil {
		leads = []models.Lead{}
	}
	av, err := attributevalue.Marshal(leads)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal leads: %w", err)
	}
	return av, nil
}

// ProfileFromItem reads the matching attributes of a Users item.
func ProfileFromItem(item map[string]types.AttributeValue) models.SeekerProfile {
	p := models.SeekerProfile{
		UserID:            ExtractString(item, "userId"),
		OrientationSelf:   ExtractString(item, "orientationSelf"),
		OrientationWanted: ExtractString(item, "orientationWanted"),
		Age:               ExtractInt(item, "age"),
		City:              ExtractString(item, "city"),
		StateProvince:     ExtractString(item, "stateProvince"),
		Country:           ExtractString(item, "country"),
		HealthCondition:   ExtractString(item, "healthCondition"),
		Accepts:           map[string]bool{},
	}
	for _, c := range models.Conditions {
		if ExtractBool(item, models.AcceptsField(c)) {
			p.Accepts[c] = true
		}
	}
	if photo := ExtractFirstPhoto(item, models.AttrProfilePhoto); photo != "" {
		p.Photos = []string{photo}
	}
	return p
}
