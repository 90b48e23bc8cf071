package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campuslife-backend/internal/storages"
)

// NewsService manages campus news articles.
type NewsService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewNewsService creates the news service.
func NewNewsService(storage storages.Storage, logger *logrus.Logger) *NewsService {
	return &NewsService{storage: storage, logger: logger}
}

// NewsInput is the create payload.
type NewsInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
}

// NewsUpdate carries editable fields. Nil means unchanged.
type NewsUpdate struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
}

// CategoryCount is one category's article count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

func validCategory(category string) bool {
	for _, c := range storages.NewsCategories {
		if c == category {
			return true
		}
	}
	return false
}

// List returns a filtered page of published articles. Content bodies are
// omitted from listings.
func (s *NewsService) List(ctx context.Context, filter storages.NewsFilter, page storages.Page) ([]storages.News, Pagination, error) {
	if filter.Category != "" && !validCategory(filter.Category) {
		return nil, Pagination{}, validationErr("unknown category: %s", filter.Category)
	}

	articles, total, err := s.storage.ListNews(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list news: %w", err)
	}
	return articles, paginate(page, total), nil
}

// Get returns one article and counts the view.
func (s *NewsService) Get(ctx context.Context, id primitive.ObjectID) (*storages.News, error) {
	article, err := s.storage.GetNews(ctx, id)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: article", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	if err := s.storage.IncrementNewsViews(ctx, id); err != nil {
		s.logger.Warnf("Failed to count view for article %s: %v", id.Hex(), err)
	} else {
		article.Views++
	}
	return article, nil
}

// Create publishes a new article.
func (s *NewsService) Create(ctx context.Context, authorID primitive.ObjectID, input NewsInput) (*storages.News, error) {
	if input.Title == "" || input.Description == "" {
		return nil, validationErr("title and description are required")
	}
	category := input.Category
	if category == "" {
		category = "general"
	}
	if !validCategory(category) {
		return nil, validationErr("unknown category: %s", category)
	}

	now := time.Now()
	article := &storages.News{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Category:    category,
		ImageURL:    input.ImageURL,
		Author:      input.Author,
		AuthorID:    authorID,
		PublishedAt: now,
		IsPublished: true,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreateNews(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.logger.Infof("Article published: ID=%s, Category=%s", article.ID.Hex(), category)
	return article, nil
}

// Update applies the provided fields.
func (s *NewsService) Update(ctx context.Context, id primitive.ObjectID, update NewsUpdate) (*storages.News, error) {
	article, err := s.storage.GetNews(ctx, id)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: article", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	if update.Title != nil {
		article.Title = *update.Title
	}
	if update.Description != nil {
		article.Description = *update.Description
	}
	if update.Content != nil {
		article.Content = *update.Content
	}
	if update.Category != nil {
		if !validCategory(*update.Category) {
			return nil, validationErr("unknown category: %s", *update.Category)
		}
		article.Category = *update.Category
	}
	if update.ImageURL != nil {
		article.ImageURL = *update.ImageURL
	}
	if update.Tags != nil {
		article.Tags = update.Tags
	}
	if update.IsPublished != nil {
		article.IsPublished = *update.IsPublished
	}
	article.UpdatedAt = time.Now()

	if err := s.storage.SaveNews(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to save article: %w", err)
	}
	return article, nil
}

// Delete removes an article.
func (s *NewsService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.storage.DeleteNews(ctx, id); err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return fmt.Errorf("%w: article", ErrNotFound)
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

// Categories returns each category with its published-article count.
func (s *NewsService) Categories(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.storage.CountNewsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	result := make([]CategoryCount, 0, len(storages.NewsCategories))
	for _, category := range storages.NewsCategories {
		result = append(result, CategoryCount{Category: category, Count: counts[category]})
	}
	return result, nil
}
