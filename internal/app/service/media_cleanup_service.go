package service

import (
	"context"
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

// RecipeImageFolder is the storage prefix recipe images are uploaded under.
const RecipeImageFolder = "recipes"

type MediaCleanupService interface {
	// SweepOrphanedImages deletes recipe images no recipe references that are older
	// than the grace period, and returns how many were removed.
	SweepOrphanedImages(ctx context.Context) (int, error)
}

type mediaCleanupService struct {
	recipeRepo repository.RecipeRepository
	media      MediaLister
	grace      time.Duration
	now        func() time.Time
}

func NewMediaCleanupService(recipeRepo repository.RecipeRepository, media MediaLister, grace time.Duration) MediaCleanupService {
	return &mediaCleanupService{
		recipeRepo: recipeRepo,
		media:      media,
		grace:      grace,
		now:        time.Now,
	}
}

func (s *mediaCleanupService) SweepOrphanedImages(ctx context.Context) (int, error) {
	objects, err := s.media.List(ctx, RecipeImageFolder+"/")
	if err != nil {
		logger.Error("Failed to list recipe images", err)
		return 0, err
	}

	keys, err := s.recipeRepo.ListImageKeys()
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(keys))
	for _, key := range keys {
		referenced[key] = true
	}

	cutoff := s.now().Add(-s.grace)
	deleted := 0
	for _, object := range objects {
		if referenced[object.Key] || object.LastModified.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := s.media.Delete(ctx, object.Key); err != nil {
			logger.Warn("Failed to delete orphaned image", map[string]interface{}{
				"key":   object.Key,
				"error": err.Error(),
			})
			continue
		}
		deleted++
	}

	logger.Info("Orphaned image sweep finished", map[string]interface{}{
		"scanned": len(objects),
		"deleted": deleted,
	})
	return deleted, nil
}
