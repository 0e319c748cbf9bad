package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(userID, authorID uint) error
	Exists(userID, authorID uint) (bool, error)
	Delete(userID, authorID uint) (bool, error)
	// FindFollowedAuthorIDs returns which of authorIDs the user follows.
	FindFollowedAuthorIDs(userID uint, authorIDs []uint) (map[uint]bool, error)
	// FindAuthorsByUser lists the authors the user follows, ordered by username.
	FindAuthorsByUser(userID uint) ([]model.User, error)
	FindFollowerIDs(authorID uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(userID, authorID uint) error {
	logger.Debug("Creating follow in database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	follow := &model.Follow{UserID: userID, AuthorID: authorID}
	if err := r.db.Omit("User", "Author").Create(follow).Error; err != nil {
		logger.Error("Failed to create follow in database", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return err
	}

	logger.Debug("Follow created in database", map[string]interface{}{
		"follow_id": follow.ID,
	})
	return nil
}

func (r *followRepository) Exists(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check follow existence", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) Delete(userID, authorID uint) (bool, error) {
	logger.Debug("Deleting follow from database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Follow{})
	if result.Error != nil {
		logger.Error("Failed to delete follow from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) FindFollowedAuthorIDs(userID uint, authorIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uint
	err := r.db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		logger.Error("Failed to find followed author IDs", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

func (r *followRepository) FindAuthorsByUser(userID uint) ([]model.User, error) {
	var authors []model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username ASC").
		Find(&authors).Error
	if err != nil {
		logger.Error("Failed to find followed authors", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Followed authors found", map[string]interface{}{
		"user_id": userID,
		"count":   len(authors),
	})
	return authors, nil
}

func (r *followRepository) FindFollowerIDs(authorID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Follow{}).Where("author_id = ?", authorID).Pluck("user_id", &ids).Error; err != nil {
		logger.Error("Failed to find follower IDs", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return ids, nil
}
