package repository

import (
	"context"

	"sciannotate/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResponseRepo handles MongoDB operations for collected review records
type ResponseRepo interface {
	Create(ctx context.Context, record *model.ReviewRecord) error
	GetAll(ctx context.Context) ([]*model.ReviewRecord, error)
	GetByDomain(ctx context.Context, domain string) ([]*model.ReviewRecord, error)
	CountsByQuestion(ctx context.Context, domain string) (map[string]int, error)
	UserReviewed(ctx context.Context, domain, userEmail string) ([]string, error)
	Exists(ctx context.Context, domain, userEmail, questionID string) (bool, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, record *model.ReviewRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *responseRepo) GetAll(ctx context.Context) ([]*model.ReviewRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *responseRepo) GetByDomain(ctx context.Context, domain string) ([]*model.ReviewRecord, error) {
	return r.find(ctx, bson.M{"domain": domain})
}

func (r *responseRepo) find(ctx context.Context, filter bson.M) ([]*model.ReviewRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"timestamp": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.ReviewRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountsByQuestion aggregates per-question review counts across all users.
func (r *responseRepo) CountsByQuestion(ctx context.Context, domain string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"domain": domain}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$questionId",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cursor.Err()
}

func (r *responseRepo) UserReviewed(ctx context.Context, domain, userEmail string) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "questionId", bson.M{
		"domain":    domain,
		"userEmail": userEmail,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *responseRepo) Exists(ctx context.Context, domain, userEmail, questionID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"domain":     domain,
		"userEmail":  userEmail,
		"questionId": questionID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
