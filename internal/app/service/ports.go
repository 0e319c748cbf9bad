package service

import (
	"context"

	"github.com/ikkim/foodgram-backend/internal/storage"
)

// MediaStorage resolves and removes recipe images by storage key.
type MediaStorage interface {
	URL(key string) string
	Delete(ctx context.Context, key string) error
}

// MediaLister is the part of media storage the orphan sweep needs.
type MediaLister interface {
	MediaStorage
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
}

type RecipePublishedEvent struct {
	AuthorID uint            `json:"author_id"`
	Recipe   RecipeShortView `json:"recipe"`
}

type Notifier interface {
	NotifyRecipePublished(followerIDs []uint, event RecipePublishedEvent)
}

// Cache is an optional read-through store for reference data; nil disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
}
