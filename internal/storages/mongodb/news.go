package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslife-backend/internal/storages"
)

// CreateNews inserts a new article.
func (s *MongoStorage) CreateNews(ctx context.Context, article *storages.News) error {
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	result, err := s.collection(collNews).InsertOne(ctx, article)
	if err != nil {
		s.logger.Errorf("Failed to create article: %v", err)
		return fmt.Errorf("failed to create article: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		article.ID = oid
	}
	return nil
}

// GetNews returns an article by ID.
func (s *MongoStorage) GetNews(ctx context.Context, id primitive.ObjectID) (*storages.News, error) {
	var article storages.News
	if err := s.collection(collNews).FindOne(ctx, bson.M{"_id": id}).Decode(&article); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get article: %v", err)
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// IncrementNewsViews bumps the view counter atomically.
func (s *MongoStorage) IncrementNewsViews(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection(collNews).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		s.logger.Errorf("Failed to increment views: %v", err)
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// ListNews returns published articles matching the filter, without the full
// body content, plus the total match count.
func (s *MongoStorage) ListNews(ctx context.Context, filter storages.NewsFilter, page storages.Page) ([]storages.News, int64, error) {
	query := bson.M{"is_published": true}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = []bson.M{
			{"title": regex},
			{"content": regex},
			{"tags": regex},
		}
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "published_at"
	}
	sortDir := 1
	if filter.SortDesc {
		sortDir = -1
	}

	total, err := s.collection(collNews).CountDocuments(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to count articles: %v", err)
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortDir}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"content": 0})

	cursor, err := s.collection(collNews).Find(ctx, query, opts)
	if err != nil {
		s.logger.Errorf("Failed to query articles: %v", err)
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []storages.News
	if err := cursor.All(ctx, &articles); err != nil {
		s.logger.Errorf("Failed to decode articles: %v", err)
		return nil, 0, fmt.Errorf("failed to decode articles: %w", err)
	}
	return articles, total, nil
}

// ListRecentNews returns the latest published headlines.
func (s *MongoStorage) ListRecentNews(ctx context.Context, limit int) ([]storages.News, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"title": 1, "category": 1, "image_url": 1, "published_at": 1})

	cursor, err := s.collection(collNews).Find(ctx, bson.M{"is_published": true}, opts)
	if err != nil {
		s.logger.Errorf("Failed to query recent articles: %v", err)
		return nil, fmt.Errorf("failed to query recent articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []storages.News
	if err := cursor.All(ctx, &articles); err != nil {
		s.logger.Errorf("Failed to decode recent articles: %v", err)
		return nil, fmt.Errorf("failed to decode recent articles: %w", err)
	}
	return articles, nil
}

// SaveNews replaces the stored article.
func (s *MongoStorage) SaveNews(ctx context.Context, article *storages.News) error {
	article.UpdatedAt = time.Now()

	result, err := s.collection(collNews).ReplaceOne(ctx, bson.M{"_id": article.ID}, article)
	if err != nil {
		s.logger.Errorf("Failed to save article: %v", err)
		return fmt.Errorf("failed to save article: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// DeleteNews removes an article.
func (s *MongoStorage) DeleteNews(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection(collNews).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Errorf("Failed to delete article: %v", err)
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if result.DeletedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// CountNewsByCategory returns the number of published articles per category.
func (s *MongoStorage) CountNewsByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"is_published": true}},
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := s.collection(collNews).Aggregate(ctx, pipeline)
	if err != nil {
		s.logger.Errorf("Failed to aggregate categories: %v", err)
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		s.logger.Errorf("Failed to decode category counts: %v", err)
		return nil, fmt.Errorf("failed to decode category counts: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Category] = r.Count
	}
	return counts, nil
}
