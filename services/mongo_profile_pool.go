package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"matchmaking_server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens and pings a MongoDB client.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	log.Println("✅ Connected to MongoDB")
	return client, nil
}

// MongoProfilePool queries the profiles collection, letting the server pick
// a random subset with $sample.
type MongoProfilePool struct {
	Collection *mongo.Collection
}

// Query runs $match, $sample and $project for filter.
func (p *MongoProfilePool) Query(ctx context.Context, filter PoolFilter) ([]string, error) {
	cursor, err := p.Collection.Aggregate(ctx, mongoPipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		UserID string `bson:"userId"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.UserID != "" && !filter.Excluded(r.UserID) {
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

// mongoMatch translates filter into a $match document.
func mongoMatch(filter PoolFilter) bson.D {
	match := bson.D{
		{Key: "orientationSelf", Value: filter.OrientationWanted},
		{Key: "orientationWanted", Value: filter.OrientationSelf},
	}
	if filter.HasLocationFilter() {
		match = append(match, bson.E{Key: filter.LocationField, Value: filter.LocationValue})
	}
	if filter.HasAgeFilter() {
		match = append(match, bson.E{Key: "age", Value: bson.D{
			{Key: "$gte", Value: filter.MinAge},
			{Key: "$lte", Value: filter.MaxAge},
		}})
	}
	switch filter.HealthTier {
	case models.HealthTierSame:
		match = append(match, bson.E{Key: "healthCondition", Value: filter.HealthCondition})
	case models.HealthTierAccepts:
		match = append(match, bson.E{Key: models.AcceptsField(filter.HealthCondition), Value: true})
	}
	if len(filter.Exclude) > 0 {
		ids := make([]string, 0, len(filter.Exclude))
		for id := range filter.Exclude {
			ids = append(ids, id)
		}
		match = append(match, bson.E{Key: "userId", Value: bson.D{{Key: "$nin", Value: ids}}})
	}
	return match
}

func mongoPipeline(filter PoolFilter) mongo.Pipeline {
	limit := filter.Limit
	if limit <= 0 {
		limit = maxSampleSize
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: mongoMatch(filter)}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: "userId", Value: 1}}}},
	}
}
