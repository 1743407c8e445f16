package push

import (
	"context"
	"errors"
	"sort"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/store"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

// PushService persists in-app notification rows and pushes them to live
// websocket connections. It is the third delivery channel next to the
// two chat platforms.
type PushService interface {
	Deliver(ctx context.Context, userID, title, message string, nType models.NotificationType, docType models.DocType, docID string) error
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type PushServiceImpl struct {
	Store *store.Store
	Hub   *Hub
}

func NewPushService(st *store.Store, hub *Hub) PushService {
	return &PushServiceImpl{Store: st, Hub: hub}
}

func (s *PushServiceImpl) Deliver(ctx context.Context, userID, title, message string, nType models.NotificationType, docType models.DocType, docID string) error {
	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      nType,
		DocType:   docType,
		DocID:     docID,
		CreatedAt: time.Now(),
	}

	err := s.Store.Update(func(d *store.Data) error {
		d.Notifications = append(d.Notifications, n)
		return nil
	})
	if err != nil {
		return err
	}

	s.Hub.Push(userID, n)
	return nil
}

func (s *PushServiceImpl) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := s.Store.View(func(d *store.Data) error {
		for _, n := range d.Notifications {
			if n.UserID == userID {
				out = append(out, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *PushServiceImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	count := 0
	err := s.Store.View(func(d *store.Data) error {
		for _, n := range d.Notifications {
			if n.UserID == userID && !n.IsRead {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (s *PushServiceImpl) MarkAsRead(ctx context.Context, id, userID string) error {
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Notifications {
			if d.Notifications[i].ID == id && d.Notifications[i].UserID == userID {
				now := time.Now()
				d.Notifications[i].IsRead = true
				d.Notifications[i].ReadAt = &now
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *PushServiceImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.Store.Update(func(d *store.Data) error {
		now := time.Now()
		for i := range d.Notifications {
			if d.Notifications[i].UserID == userID && !d.Notifications[i].IsRead {
				d.Notifications[i].IsRead = true
				d.Notifications[i].ReadAt = &now
			}
		}
		return nil
	})
}
