package repository

import (
	"context"

	"sciannotate/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo handles MongoDB operations for seeded question sets
type QuestionRepo interface {
	Upsert(ctx context.Context, domain string, questions []model.Question) (int, error)
	GetByDomain(ctx context.Context, domain string) ([]model.Question, error)
	CountByDomain(ctx context.Context, domain string) (int64, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Upsert(ctx context.Context, domain string, questions []model.Question) (int, error) {
	slug := model.Slugify(domain)
	upserted := 0
	for i := range questions {
		q := questions[i]
		q.Domain = slug
		filter := bson.M{"_id": q.ID, "domain": slug}
		_, err := r.collection.ReplaceOne(ctx, filter, q, options.Replace().SetUpsert(true))
		if err != nil {
			return upserted, err
		}
		upserted++
	}
	return upserted, nil
}

func (r *questionRepo) GetByDomain(ctx context.Context, domain string) ([]model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"domain": model.Slugify(domain)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) CountByDomain(ctx context.Context, domain string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"domain": model.Slugify(domain)})
}
