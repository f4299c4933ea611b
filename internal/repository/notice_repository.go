package repository

import (
	"context"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

type NoticeRepository struct {
	db *gorm.DB
}

type NoticeRepositoryInterface interface {
	Create(ctx context.Context, notice *model.Notice) error
	ListUnread(ctx context.Context, userID uint) ([]model.Notice, error)
	MarkRead(ctx context.Context, userID, noticeID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

var _ NoticeRepositoryInterface = (*NoticeRepository)(nil)

func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create adds a new notice for a user
func (r *NoticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

// ListUnread retrieves the unread notices of a user, most recent first
func (r *NoticeRepository) ListUnread(ctx context.Context, userID uint) ([]model.Notice, error) {
	var notices []model.Notice
	result := r.db.WithContext(ctx).
		Preload("Task").
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("id DESC").
		Find(&notices)
	if result.Error != nil {
		return nil, result.Error
	}
	return notices, nil
}

// MarkRead marks a single notice of the user as read
func (r *NoticeRepository) MarkRead(ctx context.Context, userID, noticeID uint) error {
	result := r.db.WithContext(ctx).Model(&model.Notice{}).
		Where("id = ? AND user_id = ?", noticeID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoticeNotFound
	}
	return nil
}

// MarkAllRead marks every unread notice of the user as read
func (r *NoticeRepository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Notice{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
