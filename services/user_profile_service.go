package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"matchmaking_server/models"
	"matchmaking_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileSource loads the matching attributes of a profile.
type ProfileSource interface {
	GetSeekerProfile(ctx context.Context, userID string) (models.SeekerProfile, error)
}

// UserDirectory maps an external auth identity to an internal user id.
type UserDirectory interface {
	Resolve(ctx context.Context, externalID string) (string, error)
}

// UserProfileService reads the Users table owned by profile management.
type UserProfileService struct {
	Dynamo    *DynamoService
	TableName string
	AuthIndex string
}

func (ups *UserProfileService) getItem(ctx context.Context, userID string) (map[string]types.AttributeValue, error) {
	return ups.Dynamo.GetItem(ctx, ups.TableName, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
}

// GetSeekerProfile retrieves a user profile by internal id
func (ups *UserProfileService) GetSeekerProfile(ctx context.Context, userID string) (models.SeekerProfile, error) {
	item, err := ups.getItem(ctx, userID)
	if errors.Is(err, ErrItemNotFound) {
		return models.SeekerProfile{}, fmt.Errorf("profile %s: %w", userID, models.ErrNotLinked)
	}
	if err != nil {
		return models.SeekerProfile{}, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return utils.ProfileFromItem(item), nil
}

// MainPhoto returns the first photo of userID, or "" when there is none.
func (ups *UserProfileService) MainPhoto(ctx context.Context, userID string) (string, error) {
	item, err := ups.getItem(ctx, userID)
	if errors.Is(err, ErrItemNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return utils.ExtractFirstPhoto(item, models.AttrProfilePhoto), nil
}

// Resolve looks up the internal user id linked to an auth provider id.
func (ups *UserProfileService) Resolve(ctx context.Context, externalID string) (string, error) {
	if externalID == "" {
		return "", models.ErrNotLinked
	}
	items, err := ups.Dynamo.QueryItemsWithIndex(ctx, ups.TableName, ups.AuthIndex,
		"authId = :authId",
		map[string]types.AttributeValue{":authId": &types.AttributeValueMemberS{Value: externalID}},
		1,
	)
	if err != nil {
		return "", fmt.Errorf("failed to resolve auth id: %w", err)
	}
	if len(items) == 0 {
		log.Printf("⚠️ No profile linked to auth id %s", externalID)
		return "", models.ErrNotLinked
	}
	userID := utils.ExtractString(items[0], "userId")
	if userID == "" {
		return "", models.ErrNotLinked
	}
	return userID, nil
}
