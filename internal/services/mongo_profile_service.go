package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
)

type MongoProfileService struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string) (*MongoProfileService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("profiles")

	// Best-effort indexes. The handle index is deliberately non-unique: handle
	// uniqueness is enforced on the create path only, and updates may resubmit
	// any handle, so both engines behave the same.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "handle", Value: 1}}},
	})

	log.Printf("MongoDB connected (profiles): db=%s", dbName)
	return &MongoProfileService{
		client:      client,
		db:          db,
		profilesCol: col,
	}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Upsert creates the user's profile on first submission and updates it in
// place afterwards. Handle uniqueness is checked on the create path only.
func (s *MongoProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	now := time.Now().UTC()

	var existing models.Profile
	err := s.profilesCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		if err2 := s.profilesCol.FindOne(ctx, bson.M{"handle": req.Handle}).Err(); err2 == nil {
			return nil, ErrHandleExists
		} else if err2 != mongo.ErrNoDocuments {
			return nil, err2
		}

		prof := models.Profile{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyProfileFields(&prof, req)

		if _, err := s.profilesCol.InsertOne(ctx, prof); err != nil {
			return nil, err
		}
		return &prof, nil
	}
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"handle":     req.Handle,
		"status":     req.Status,
		"skills":     req.SplitSkills(),
		"updated_at": now,
	}
	if req.Company != nil {
		set["company"] = *req.Company
	}
	if req.Website != nil {
		set["website"] = *req.Website
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.GithubUsername != nil {
		set["githubusername"] = *req.GithubUsername
	}
	if req.Youtube != nil {
		set["social.youtube"] = *req.Youtube
	}
	if req.Twitter != nil {
		set["social.twitter"] = *req.Twitter
	}
	if req.Facebook != nil {
		set["social.facebook"] = *req.Facebook
	}
	if req.Linkedin != nil {
		set["social.linkedin"] = *req.Linkedin
	}
	if req.Instagram != nil {
		set["social.instagram"] = *req.Instagram
	}

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Profile
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"user_id": userID})
}

func (s *MongoProfileService) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"handle": handle})
}

func (s *MongoProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoProfileService) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, filter).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}
