package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"matchmaking_server/models"
	"matchmaking_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StatusUpdate sets the status of the element at Index in a user's active
// collection, provided that element still references CounterpartID and is
// not chopped.
type StatusUpdate struct {
	Index         int
	CounterpartID string
	Status        string
}

// SlotRepository persists per-user match slot collections.
type SlotRepository interface {
	// Load returns the user's collections, empty if the user has none yet.
	Load(ctx context.Context, userID string) (*models.MatchSlots, error)
	// Save writes all three collections of slots.UserID.
	Save(ctx context.Context, slots *models.MatchSlots) error
	// SetStatuses applies guarded status-only updates to ownerID's active
	// collection. Every update is attempted; failures are joined.
	SetStatuses(ctx context.Context, ownerID string, updates []StatusUpdate) error
}

// DynamoSlotRepository stores one item per user in the slots table.
type DynamoSlotRepository struct {
	Dynamo    *DynamoService
	TableName string
}

func (r *DynamoSlotRepository) key(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		models.AttrUserID: &types.AttributeValueMemberS{Value: userID},
	}
}

// Load reads and normalizes the user's slot item.
func (r *DynamoSlotRepository) Load(ctx context.Context, userID string) (*models.MatchSlots, error) {
	item, err := r.Dynamo.GetItem(ctx, r.TableName, r.key(userID))
	if errors.Is(err, ErrItemNotFound) {
		return models.NewMatchSlots(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match slots for %s: %w", userID, err)
	}

	slots := models.RestoreMatchSlots(userID,
		utils.NormalizeSlotEntries(item, models.AttrActive),
		utils.NormalizeSlotEntries(item, models.AttrChopped),
		utils.NormalizeLeads(item, models.AttrDiscovered),
	)
	if ts := utils.ExtractString(item, models.AttrUpdatedAt); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			slots.UpdatedAt = t
		}
	}
	return slots, nil
}

// Save overwrites the three collections in one UpdateItem. Concurrent saves
// for the same user are last-writer-wins.
func (r *DynamoSlotRepository) Save(ctx context.Context, slots *models.MatchSlots) error {
	updatedAt := slots.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	active, err := utils.EncodeSlotEntries(slots.Active.Items())
	if err != nil {
		return err
	}
	chopped, err := utils.EncodeSlotEntries(slots.Chopped.Items())
	if err != nil {
		return err
	}
	discovered, err := utils.EncodeLeads(slots.Discovered.Items())
	if err != nil {
		return err
	}

	err = r.Dynamo.UpdateItem(ctx, r.TableName, UpdateInput{
		Key:              r.key(slots.UserID),
		UpdateExpression: "SET #active = :active, #chopped = :chopped, #discovered = :discovered, #updatedAt = :updatedAt",
		ExpressionAttributeNames: map[string]string{
			"#active":     models.AttrActive,
			"#chopped":    models.AttrChopped,
			"#discovered": models.AttrDiscovered,
			"#updatedAt":  models.AttrUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active":     active,
			":chopped":    chopped,
			":discovered": discovered,
			":updatedAt":  &types.AttributeValueMemberS{Value: updatedAt.UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to save match slots for %s: %w", slots.UserID, err)
	}
	return nil
}

// SetStatuses issues one conditional UpdateItem per update.
func (r *DynamoSlotRepository) SetStatuses(ctx context.Context, ownerID string, updates []StatusUpdate) error {
	var errs []error
	for _, u := range updates {
		if err := r.Dynamo.UpdateItem(ctx, r.TableName, statusUpdateInput(r.key(ownerID), u)); err != nil {
			if IsConditionFailed(err) {
				log.Printf("⚠️ Slot %d of %s no longer references %s as a live entry, skipping", u.Index, ownerID, u.CounterpartID)
			}
			errs = append(errs, fmt.Errorf("status update %s[%d] -> %s: %w", ownerID, u.Index, u.Status, err))
		}
	}
	return errors.Join(errs...)
}

// statusUpdateInput builds the guarded element update for u.
func statusUpdateInput(key map[string]types.AttributeValue, u StatusUpdate) UpdateInput {
	path := fmt.Sprintf("#active[%d]", u.Index)
	return UpdateInput{
		Key:                 key,
		UpdateExpression:    fmt.Sprintf("SET %s.#status = :status", path),
		ConditionExpression: fmt.Sprintf("%s.#uid = :uid AND %s.#status <> :chopped", path, path),
		ExpressionAttributeNames: map[string]string{
			"#active": models.AttrActive,
			"#status": models.AttrEntryStatus,
			"#uid":    models.AttrEntryUserID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: u.Status},
			":uid":     &types.AttributeValueMemberS{Value: u.CounterpartID},
			":chopped": &types.AttributeValueMemberS{Value: models.StatusChopped},
		},
	}
}
