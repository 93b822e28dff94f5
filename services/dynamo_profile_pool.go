package services

import (
	"context"
	"fmt"
	"strconv"

	"matchmaking_server/models"
	"matchmaking_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoProfilePool scans the Users table. Equality, range and health clauses
// go into the FilterExpression; returned items are rechecked with
// PoolFilter.Matches, which also applies the exclusion set.
type DynamoProfilePool struct {
	Dynamo    *DynamoService
	TableName string
}

// Query scans for profiles matching filter.
func (p *DynamoProfilePool) Query(ctx context.Context, filter PoolFilter) ([]string, error) {
	expr, names, values := dynamoPoolExpression(filter)
	items, err := p.Dynamo.ScanWithFilter(ctx, p.TableName, expr, names, values,
		func(item map[string]types.AttributeValue) bool {
			return filter.Matches(utils.ProfileFromItem(item))
		}, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile pool: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id := utils.ExtractString(item, "userId"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// dynamoPoolExpression builds the FilterExpression for filter.
func dynamoPoolExpression(filter PoolFilter) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{
		"#oself":   "orientationSelf",
		"#owanted": "orientationWanted",
	}
	values := map[string]types.AttributeValue{
		":oself":   &types.AttributeValueMemberS{Value: filter.OrientationWanted},
		":owanted": &types.AttributeValueMemberS{Value: filter.OrientationSelf},
	}
	expr := "#oself = :oself AND #owanted = :owanted"

	if filter.HasLocationFilter() {
		names["#loc"] = filter.LocationField
		values[":loc"] = &types.AttributeValueMemberS{Value: filter.LocationValue}
		expr += " AND #loc = :loc"
	}
	if filter.HasAgeFilter() {
		names["#age"] = "age"
		values[":minAge"] = &types.AttributeValueMemberN{Value: strconv.Itoa(filter.MinAge)}
		values[":maxAge"] = &types.AttributeValueMemberN{Value: strconv.Itoa(filter.MaxAge)}
		expr += " AND #age BETWEEN :minAge AND :maxAge"
	}
	switch filter.HealthTier {
	case models.HealthTierSame:
		names["#health"] = "healthCondition"
		values[":health"] = &types.AttributeValueMemberS{Value: filter.HealthCondition}
		expr += " AND #health = :health"
	case models.HealthTierAccepts:
		names["#accepts"] = models.AcceptsField(filter.HealthCondition)
		values[":true"] = &types.AttributeValueMemberBOOL{Value: true}
		expr += " AND #accepts = :true"
	}
	return expr, names, values
}
