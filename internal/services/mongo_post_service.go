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

// MongoPostService stores each post as a single document with embedded likes
// and comments arrays. Array mutations go through atomic $push/$pull updates
// so two concurrent likes (or a like racing an unlike) cannot overwrite each
// other's write.
type MongoPostService struct {
	client   *mongo.Client
	db       *mongo.Database
	postsCol *mongo.Collection
}

func NewMongoPostService(ctx context.Context, mongoURI, dbName string) (*MongoPostService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("posts")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})

	log.Printf("MongoDB connected (posts): db=%s", dbName)
	return &MongoPostService{
		client:   client,
		db:       db,
		postsCol: col,
	}, nil
}

func (s *MongoPostService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoPostService) Create(ctx context.Context, userID string, req *models.CreatePostRequest) (*models.Post, error) {
	post := models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      req.Text,
		Name:      req.Name,
		Avatar:    req.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.postsCol.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoPostService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListAll returns every post, newest first.
func (s *MongoPostService) ListAll(ctx context.Context) ([]*models.Post, error) {
	cur, err := s.postsCol.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Post, 0)
	for cur.Next(ctx) {
		var post models.Post
		if err := cur.Decode(&post); err != nil {
			return nil, err
		}
		out = append(out, &post)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoPostService) Delete(ctx context.Context, userID, postID string) error {
	// Ensure ownership.
	var post models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrPostNotFound
		}
		return err
	}
	if !post.IsOwnedBy(userID) {
		return ErrNotPostOwner
	}

	if _, err := s.postsCol.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		return err
	}
	return nil
}

// Like prepends {userID} to the likes array. The filter excludes posts the
// user already liked, making the push atomic: the document matches at most
// once no matter how many likes race.
func (s *MongoPostService) Like(ctx context.Context, userID, postID string) (*models.Post, error) {
	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "likes.user_id": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": bson.M{
			"$each":     bson.A{models.Like{UserID: userID}},
			"$position": 0,
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Post
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish not found vs already liked.
			if err2 := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrPostNotFound
			} else if err2 != nil {
				return nil, err2
			}
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return &updated, nil
}

// Unlike pulls the user's like entry if present.
func (s *MongoPostService) Unlike(ctx context.Context, userID, postID string) (*models.Post, error) {
	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "likes.user_id": userID},
		bson.M{"$pull": bson.M{"likes": bson.M{"user_id": userID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Post
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish not found vs not liked.
			if err2 := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrPostNotFound
			} else if err2 != nil {
				return nil, err2
			}
			return nil, ErrNotLiked
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoPostService) AddComment(ctx context.Context, userID, postID string, req *models.CreateCommentRequest) (*models.Post, error) {
	comment := models.Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      req.Text,
		Name:      req.Name,
		Avatar:    req.Avatar,
		CreatedAt: time.Now().UTC(),
	}

	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": bson.M{
			"$each":     bson.A{comment},
			"$position": 0,
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Post
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoPostService) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "comments.id": commentID},
		bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Post
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish post not found vs comment not found.
			if err2 := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrPostNotFound
			} else if err2 != nil {
				return nil, err2
			}
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &updated, nil
}
