package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

const tagsCacheKey = "tags:all"

type TagService interface {
	ListTags(ctx context.Context) ([]TagView, error)
	GetTag(ctx context.Context, tagID uint) (*TagView, error)
}

type tagService struct {
	tagRepo repository.TagRepository
	cache   Cache
}

// NewTagService accepts a nil cache.
func NewTagService(tagRepo repository.TagRepository, cache Cache) TagService {
	return &tagService{tagRepo: tagRepo, cache: cache}
}

func (s *tagService) ListTags(ctx context.Context) ([]TagView, error) {
	var views []TagView
	if cacheGet(ctx, s.cache, tagsCacheKey, &views) {
		return views, nil
	}

	tags, err := s.tagRepo.FindAll()
	if err != nil {
		return nil, err
	}

	views = make([]TagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, NewTagView(tag))
	}
	cacheSet(ctx, s.cache, tagsCacheKey, views)
	return views, nil
}

func (s *tagService) GetTag(ctx context.Context, tagID uint) (*TagView, error) {
	tag, err := s.tagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	view := NewTagView(*tag)
	return &view, nil
}

// cacheGet treats cache failures as misses.
func cacheGet(ctx context.Context, cache Cache, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Warn("Cache lookup failed, reading from database", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return hit
}

func cacheSet(ctx context.Context, cache Cache, key string, value interface{}) {
	if cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, key, value); err != nil {
		logger.Warn("Cache store failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
