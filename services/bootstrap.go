package services

import (
	"context"
	"fmt"
	"log"

	"matchmaking_server/config"

	"go.mongodb.org/mongo-driver/mongo"
)

// Services groups everything the server and CLI need.
type Services struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
	Match    *MatchService

	mongoClient *mongo.Client
}

// NewServices wires storage, search and image lookup from cfg.
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	dynamo := NewDynamoService(awsCfg)
	log.Println("✅ DynamoDB client initialized")

	profiles := &UserProfileService{Dynamo: dynamo, TableName: cfg.UsersTable, AuthIndex: cfg.UsersAuthIndex}
	slots := &DynamoSlotRepository{Dynamo: dynamo, TableName: cfg.SlotsTable}

	svc := &Services{Dynamo: dynamo, Profiles: profiles}

	var pool ProfilePool
	switch cfg.PoolBackend {
	case config.PoolBackendMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		svc.mongoClient = client
		pool = &MongoProfilePool{Collection: client.Database(cfg.MongoDatabase).Collection(cfg.ProfilesCollection)}
	case config.PoolBackendDynamo:
		pool = &DynamoProfilePool{Dynamo: dynamo, TableName: cfg.UsersTable}
	default:
		return nil, fmt.Errorf("unknown profile pool backend %q", cfg.PoolBackend)
	}
	log.Printf("🔍 Profile pool backend: %s", cfg.PoolBackend)

	svc.Match = &MatchService{
		Slots:            slots,
		Profiles:         profiles,
		Images:           NewS3ImageService(awsCfg, profiles, cfg.S3BucketName, cfg.CDNBaseURL, cfg.ImageURLTTL),
		Search:           NewCandidateSearchEngine(pool, cfg.PoolScanLimit),
		Syncer:           &ReciprocitySyncer{Slots: slots, Concurrency: cfg.SyncConcurrency},
		RefillTimeout:    cfg.RefillTimeout,
		ImageConcurrency: cfg.SyncConcurrency,
	}
	return svc, nil
}

// Close releases the Mongo connection, if any.
func (s *Services) Close(ctx context.Context) {
	if s.mongoClient == nil {
		return
	}
	if err := s.mongoClient.Disconnect(ctx); err != nil {
		log.Printf("⚠️ Failed to disconnect MongoDB: %v", err)
	}
}
