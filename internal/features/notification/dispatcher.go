package notification

import (
	"context"
	"fmt"
	"time"

	"go-erp/internal/bots"
	"go-erp/internal/common/models"
	"go-erp/internal/features/push"
	"go-erp/internal/render"
	"go-erp/internal/store"

	"go.uber.org/zap"
)

// dispatchTimeout bounds the whole fan-out of one notification,
// renders included.
const dispatchTimeout = 30 * time.Second

// Card attaches a document to a notification so channels that support
// rich media get a rendered image with inline approve/reject buttons.
type Card struct {
	DocType  models.DocType
	DocID    string
	Number   int
	Document interface{}
}

// Dispatcher fans a notification out to every channel every recipient
// holds. Delivery is fire-and-forget: methods return immediately and a
// failed channel never affects other channels, other recipients, or
// the caller's primary operation.
type Dispatcher interface {
	NotifyRole(target models.Role, title, message string, card *Card)
	NotifyUser(username, title, message string, card *Card)
}

type DispatcherImpl struct {
	Store      *store.Store
	Messengers []bots.Messenger
	Push       push.PushService
	Renderer   render.Renderer
	Logger     *zap.Logger
}

func NewDispatcher(st *store.Store, push push.PushService, renderer render.Renderer, logger *zap.Logger, messengers []bots.Messenger) Dispatcher {
	return &DispatcherImpl{
		Store:      st,
		Messengers: messengers,
		Push:       push,
		Renderer:   renderer,
		Logger:     logger,
	}
}

// NotifyRole notifies every user holding the role, plus every admin,
// deduplicated by user id.
func (d *DispatcherImpl) NotifyRole(target models.Role, title, message string, card *Card) {
	go d.dispatch(d.resolveRole(target), title, message, card)
}

// NotifyUser notifies exactly one user by username, if present.
func (d *DispatcherImpl) NotifyUser(username, title, message string, card *Card) {
	go d.dispatch(d.resolveUser(username), title, message, card)
}

func (d *DispatcherImpl) resolveRole(target models.Role) []models.User {
	seen := map[string]bool{}
	var recipients []models.User

	_ = d.Store.View(func(data *store.Data) error {
		for _, u := range data.Users {
			if (u.Role == target || u.Role == models.RoleAdmin) && !seen[u.ID] {
				seen[u.ID] = true
				recipients = append(recipients, u)
			}
		}
		return nil
	})
	return recipients
}

func (d *DispatcherImpl) resolveUser(username string) []models.User {
	var recipients []models.User
	_ = d.Store.View(func(data *store.Data) error {
		for _, u := range data.Users {
			if u.Username == username {
				recipients = append(recipients, u)
				break
			}
		}
		return nil
	})
	return recipients
}

func (d *DispatcherImpl) dispatch(recipients []models.User, title, message string, card *Card) {
	if len(recipients) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	// Render once, share across recipients. A failed render simply
	// downgrades every delivery to plain text.
	var image []byte
	if card != nil {
		rendered, err := d.Renderer.RenderCard(ctx, card.Document)
		if err != nil {
			d.Logger.Warn("card render failed, falling back to text",
				zap.String("doc_type", string(card.DocType)),
				zap.String("doc_id", card.DocID),
				zap.Error(err))
		} else {
			image = rendered
		}
	}

	for _, user := range recipients {
		for _, m := range d.Messengers {
			if probe, ok := m.(interface{ Configured() bool }); ok && !probe.Configured() {
				continue
			}
			chatID := chatIDFor(m.Name(), user)
			if chatID == 0 {
				continue
			}
			if err := d.send(ctx, m, chatID, message, image, card); err != nil {
				d.Logger.Warn("notification delivery failed",
					zap.String("platform", m.Name()),
					zap.String("user", user.Username),
					zap.Error(err))
			}
		}

		nType := models.NotificationTypeTask
		docType, docID := models.DocType(""), ""
		if card != nil {
			docType, docID = card.DocType, card.DocID
		}
		if err := d.Push.Deliver(ctx, user.ID, title, message, nType, docType, docID); err != nil {
			d.Logger.Warn("notification delivery failed",
				zap.String("platform", "push"),
				zap.String("user", user.Username),
				zap.Error(err))
		}
	}
}

func (d *DispatcherImpl) send(ctx context.Context, m bots.Messenger, chatID int64, message string, image []byte, card *Card) error {
	if card != nil && image != nil {
		return m.SendImage(ctx, chatID, image, message, actionKeyboard(card))
	}
	if card != nil {
		return m.SendText(ctx, chatID, message, actionKeyboard(card))
	}
	return m.SendText(ctx, chatID, message, nil)
}

func chatIDFor(platform string, user models.User) int64 {
	switch platform {
	case "bale":
		return user.BaleChatID
	case "telegram":
		return user.TelegramChatID
	}
	return 0
}

// actionKeyboard carries the action token the chat engine parses back
// out of a button press.
func actionKeyboard(card *Card) *bots.Keyboard {
	return &bots.Keyboard{
		Inline: true,
		Rows: [][]bots.Button{{
			{Text: "Approve", Data: fmt.Sprintf("approve:%s:%s", card.DocType, card.DocID)},
			{Text: "Reject", Data: fmt.Sprintf("reject:%s:%s", card.DocType, card.DocID)},
		}},
	}
}
