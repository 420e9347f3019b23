package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"

	"gorm.io/gorm"
)

type gormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository postgres MessageRepository
func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// AutoMigrate 依 model 建立 / 更新 messages 與 reply_links 表
func (r *gormMessageRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.Message{}, &domain.ReplyLink{})
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// CreateReply reply row + link in one transaction
func (r *gormMessageRepository) CreateReply(ctx context.Context, reply *domain.Message, originalID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original domain.Message
		if err := tx.Select("id").First(&original, "id = ?", originalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReplyTargetNotFound
			}
			return err
		}

		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.ReplyLink{ReplyID: reply.ID, MessageID: originalID, CreatedAt: reply.Timestamp}).Error; err != nil {
			return fmt.Errorf("create reply link: %w", err)
		}
		reply.ReplyTo = originalID
		return nil
	})
}

func (r *gormMessageRepository) Delete(ctx context.Context, messageID, senderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND sender_id = ?", messageID, senderID).Delete(&domain.Message{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("reply_id = ?", messageID).Delete(&domain.ReplyLink{}).Error
	})
}

// UpdateStatus 單一條件式 UPDATE, 只有比目前狀態更前面的才會被改
func (r *gormMessageRepository) UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ? AND receiver_id = ? AND status IN ?", messageID, actorID, status.Before())
	if expectSenderID != "" {
		q = q.Where("sender_id = ?", expectSenderID)
	}

	res := q.Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", messageID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, domain.ErrNotFound
	}
	return false, nil
}

func (r *gormMessageRepository) History(ctx context.Context, a, b string, limit int) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order(`"timestamp" ASC`).
		Limit(historyLimit(limit)).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return msgs, nil
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	var links []domain.ReplyLink
	if err := r.db.WithContext(ctx).Where("reply_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("load reply links: %w", err)
	}
	replyTo := make(map[string]string, len(links))
	for _, l := range links {
		replyTo[l.ReplyID] = l.MessageID
	}
	for i := range msgs {
		msgs[i].ReplyTo = replyTo[msgs[i].ID]
	}
	return msgs, nil
}

const contactsQuery = `
SELECT contact_id AS user_id,
       MAX("timestamp") AS last_message_at,
       SUM(CASE WHEN receiver_id = @user AND status <> 'read' THEN 1 ELSE 0 END) AS unread_count
FROM (
    SELECT CASE WHEN sender_id = @user THEN receiver_id ELSE sender_id END AS contact_id,
           "timestamp", receiver_id, status
    FROM messages
    WHERE sender_id = @user OR receiver_id = @user
) t
GROUP BY contact_id
ORDER BY last_message_at DESC`

func (r *gormMessageRepository) Contacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	if err := r.db.WithContext(ctx).Raw(contactsQuery, map[string]interface{}{"user": userID}).Scan(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}
