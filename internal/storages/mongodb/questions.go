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

// CreatePastQuestion inserts a new past-question document.
func (s *MongoStorage) CreatePastQuestion(ctx context.Context, q *storages.PastQuestion) error {
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now

	result, err := s.collection(collQuestions).InsertOne(ctx, q)
	if err != nil {
		s.logger.Errorf("Failed to create past question: %v", err)
		return fmt.Errorf("failed to create past question: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		q.ID = oid
	}

	s.logger.Infof("Created past question: ID=%s, Course=%s", q.ID.Hex(), q.CourseCode)
	return nil
}

// GetPastQuestion returns a past question by ID.
func (s *MongoStorage) GetPastQuestion(ctx context.Context, id primitive.ObjectID) (*storages.PastQuestion, error) {
	var q storages.PastQuestion
	if err := s.collection(collQuestions).FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get past question: %v", err)
		return nil, fmt.Errorf("failed to get past question: %w", err)
	}
	return &q, nil
}

// ListPastQuestions returns active, approved questions matching the filter
// plus the total match count for pagination.
func (s *MongoStorage) ListPastQuestions(ctx context.Context, filter storages.QuestionFilter, page storages.Page) ([]storages.PastQuestion, int64, error) {
	query := bson.M{"is_active": true, "is_approved": true}

	if filter.CourseCode != "" {
		query["course_code"] = filter.CourseCode
	}
	if filter.CourseName != "" {
		query["course_name"] = bson.M{"$regex": filter.CourseName, "$options": "i"}
	}
	if filter.Semester != "" {
		query["semester"] = filter.Semester
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.IsPaid != nil {
		query["is_paid"] = *filter.IsPaid
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = []bson.M{
			{"title": regex},
			{"course_name": regex},
			{"course_code": regex},
			{"tags": regex},
		}
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortDir := 1
	if filter.SortDesc {
		sortDir = -1
	}

	total, err := s.collection(collQuestions).CountDocuments(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to count past questions: %v", err)
		return nil, 0, fmt.Errorf("failed to count past questions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortDir}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := s.collection(collQuestions).Find(ctx, query, opts)
	if err != nil {
		s.logger.Errorf("Failed to query past questions: %v", err)
		return nil, 0, fmt.Errorf("failed to query past questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []storages.PastQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		s.logger.Errorf("Failed to decode past questions: %v", err)
		return nil, 0, fmt.Errorf("failed to decode past questions: %w", err)
	}

	return questions, total, nil
}

// ListUserUploads returns all questions uploaded by a user, newest first.
func (s *MongoStorage) ListUserUploads(ctx context.Context, user primitive.ObjectID) ([]storages.PastQuestion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.collection(collQuestions).Find(ctx, bson.M{"uploaded_by": user}, opts)
	if err != nil {
		s.logger.Errorf("Failed to query uploads: %v", err)
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []storages.PastQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		s.logger.Errorf("Failed to decode uploads: %v", err)
		return nil, fmt.Errorf("failed to decode uploads: %w", err)
	}
	return questions, nil
}

// IncrementQuestionDownloads bumps the download counter atomically at the
// store, avoiding the read-modify-write race on a shared counter.
func (s *MongoStorage) IncrementQuestionDownloads(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection(collQuestions).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"downloads": 1}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		s.logger.Errorf("Failed to increment downloads: %v", err)
		return fmt.Errorf("failed to increment downloads: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// SetQuestionRating stores the new running-average rating and count.
func (s *MongoStorage) SetQuestionRating(ctx context.Context, id primitive.ObjectID, rating float64, count int64) error {
	result, err := s.collection(collQuestions).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "rating_count": count, "updated_at": time.Now()}},
	)
	if err != nil {
		s.logger.Errorf("Failed to set rating: %v", err)
		return fmt.Errorf("failed to set rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return storages.ErrNotFound
	}
	return nil
}

// CreateDownload inserts a download receipt. The unique (user, past_question)
// index makes this the commit point of a purchase: the second of two racing
// inserts gets storages.ErrDuplicate.
func (s *MongoStorage) CreateDownload(ctx context.Context, d *storages.Download) error {
	d.DownloadedAt = time.Now()

	result, err := s.collection(collDownloads).InsertOne(ctx, d)
	if err != nil {
		if err = wrapErr(err); err == storages.ErrDuplicate {
			return err
		}
		s.logger.Errorf("Failed to create download: %v", err)
		return fmt.Errorf("failed to create download: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

// GetDownload returns the receipt for a (user, question) pair.
func (s *MongoStorage) GetDownload(ctx context.Context, user, question primitive.ObjectID) (*storages.Download, error) {
	var d storages.Download
	err := s.collection(collDownloads).FindOne(ctx, bson.M{"user": user, "past_question": question}).Decode(&d)
	if err != nil {
		if err = wrapErr(err); err == storages.ErrNotFound {
			return nil, err
		}
		s.logger.Errorf("Failed to get download: %v", err)
		return nil, fmt.Errorf("failed to get download: %w", err)
	}
	return &d, nil
}
