package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go-erp/internal/bots"
	"go-erp/internal/common/models"
	"go-erp/internal/config"
	"go-erp/internal/features/approval"
	"go-erp/internal/features/notification"
	"go-erp/internal/features/order"
	"go-erp/internal/features/permit"
	"go-erp/internal/features/report"
	"go-erp/internal/features/role"
	"go-erp/internal/features/user"
	"go-erp/internal/store"
	"go-erp/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Menu labels matched verbatim against incoming text.
const (
	menuNewOrder      = "New payment order"
	menuNewPermit     = "New exit permit"
	menuPendingTasks  = "My pending tasks"
	menuArchiveNumber = "Archive by number"
	menuArchiveDate   = "Archive by date"
)

// Engine drives the conversational side: menus, multi-step creation
// flows, approval commands and inline-button callbacks. One engine
// serves every platform; per-chat state lives in the session store.
type Engine struct {
	Config     *config.Config
	Store      *store.Store
	Users      user.UserService
	Orders     order.OrderService
	Permits    permit.PermitService
	Approvals  approval.ApprovalService
	Reports    report.ReportService
	Roles      role.RoleService
	Dispatcher notification.Dispatcher
	Sessions   SessionStore
	Logger     *zap.Logger
}

func NewEngine(cfg *config.Config, st *store.Store, users user.UserService, orders order.OrderService, permits permit.PermitService, approvals approval.ApprovalService, reports report.ReportService, roles role.RoleService, dispatcher notification.Dispatcher, sessions SessionStore, logger *zap.Logger) *Engine {
	return &Engine{
		Config:     cfg,
		Store:      st,
		Users:      users,
		Orders:     orders,
		Permits:    permits,
		Approvals:  approvals,
		Reports:    reports,
		Roles:      roles,
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Logger:     logger,
	}
}

func (e *Engine) HandleUpdate(ctx context.Context, m bots.Messenger, u bots.Update) {
	actor, err := e.Users.GetByChatID(ctx, u.Platform, u.ChatID)
	if err != nil {
		e.reply(ctx, m, u.ChatID, "This chat is not linked to any account. Ask an administrator to register your chat id.", nil)
		return
	}

	if u.Callback != "" {
		e.handleCallback(ctx, m, u, actor)
		return
	}

	text := strings.TrimSpace(u.Text)
	switch strings.ToLower(text) {
	case "/start", "start", "reset", "cancel":
		e.Sessions.Reset(u.Platform, u.ChatID)
		e.reply(ctx, m, u.ChatID, fmt.Sprintf("Hello %s. Pick an option:", actor.DisplayName()), e.mainMenu())
		return
	}

	sess := e.Sessions.Get(u.Platform, u.ChatID)
	if sess.State != StateIdle {
		e.handleStep(ctx, m, u, actor, sess, text)
		return
	}

	if e.handleMenu(ctx, m, u, actor, text) {
		return
	}

	if intent := ParseCommand(text); intent != nil {
		e.handleIntent(ctx, m, u, actor, intent)
		return
	}

	e.reply(ctx, m, u.ChatID, "I did not understand that. Use the menu, or commands like \"approve 1001\".", e.mainMenu())
}

// handleMenu starts a flow for an exact menu label; false means the
// text was not a menu choice.
func (e *Engine) handleMenu(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User, text string) bool {
	switch text {
	case menuNewOrder:
		if !e.can(ctx, actor, role.CapPaymentCreate) {
			e.reply(ctx, m, u.ChatID, "You are not allowed to create payment orders.", e.mainMenu())
			return true
		}
		e.Sessions.Put(u.Platform, u.ChatID, &Session{State: StateOrderAmount})
		e.reply(ctx, m, u.ChatID, "Enter the amount:", nil)
	case menuNewPermit:
		if !e.can(ctx, actor, role.CapExitCreate) {
			e.reply(ctx, m, u.ChatID, "You are not allowed to create exit permits.", e.mainMenu())
			return true
		}
		e.Sessions.Put(u.Platform, u.ChatID, &Session{State: StatePermitRecipient})
		e.reply(ctx, m, u.ChatID, "Who receives the goods?", nil)
	case menuPendingTasks:
		entries, err := e.Reports.Pending(ctx, actor.Role)
		if err != nil {
			e.replyError(ctx, m, u.ChatID, err)
			return true
		}
		e.reply(ctx, m, u.ChatID, report.FormatEntries(entries), e.mainMenu())
	case menuArchiveNumber:
		if !e.can(ctx, actor, role.CapReportView) {
			e.reply(ctx, m, u.ChatID, "You are not allowed to view the archive.", e.mainMenu())
			return true
		}
		e.Sessions.Put(u.Platform, u.ChatID, &Session{State: StateArchiveNumber})
		e.reply(ctx, m, u.ChatID, "Enter the document number:", nil)
	case menuArchiveDate:
		if !e.can(ctx, actor, role.CapReportView) {
			e.reply(ctx, m, u.ChatID, "You are not allowed to view the archive.", e.mainMenu())
			return true
		}
		e.Sessions.Put(u.Platform, u.ChatID, &Session{State: StateArchiveDate})
		e.reply(ctx, m, u.ChatID, "Enter a date or fragment (for example 2026-03):", nil)
	default:
		return false
	}
	return true
}

func (e *Engine) handleStep(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User, sess *Session, text string) {
	switch sess.State {
	case StateOrderAmount:
		amount, err := decimal.NewFromString(utils.CleanNumber(text))
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			e.reply(ctx, m, u.ChatID, "That does not look like an amount. Enter digits only:", nil)
			return
		}
		sess.Set("amount", amount.String())
		sess.State = StateOrderPayee
		e.Sessions.Put(u.Platform, u.ChatID, sess)
		e.reply(ctx, m, u.ChatID, "Who is the payee?", nil)

	case StateOrderPayee:
		if text == "" {
			e.reply(ctx, m, u.ChatID, "The payee cannot be empty. Who is the payee?", nil)
			return
		}
		sess.Set("payee", text)
		sess.State = StateOrderDescription
		e.Sessions.Put(u.Platform, u.ChatID, sess)
		e.reply(ctx, m, u.ChatID, "Describe the payment:", nil)

	case StateOrderDescription:
		if text == "" {
			e.reply(ctx, m, u.ChatID, "The description cannot be empty. Describe the payment:", nil)
			return
		}
		e.finishOrder(ctx, m, u, actor, sess, text)

	case StatePermitRecipient:
		if text == "" {
			e.reply(ctx, m, u.ChatID, "The recipient cannot be empty. Who receives the goods?", nil)
			return
		}
		sess.Set("recipient", text)
		sess.State = StatePermitGoods
		e.Sessions.Put(u.Platform, u.ChatID, sess)
		e.reply(ctx, m, u.ChatID, "What goods are leaving?", nil)

	case StatePermitGoods:
		if text == "" {
			e.reply(ctx, m, u.ChatID, "The goods cannot be empty. What goods are leaving?", nil)
			return
		}
		sess.Set("goods", text)
		sess.State = StatePermitCount
		e.Sessions.Put(u.Platform, u.ChatID, sess)
		e.reply(ctx, m, u.ChatID, "How many units?", nil)

	case StatePermitCount:
		count, err := strconv.Atoi(utils.CleanNumber(text))
		if err != nil || count <= 0 {
			e.reply(ctx, m, u.ChatID, "Enter the count as a whole number:", nil)
			return
		}
		e.finishPermit(ctx, m, u, actor, sess, count)

	case StateArchiveNumber:
		number, err := strconv.Atoi(utils.CleanNumber(text))
		if err != nil || number <= 0 {
			e.reply(ctx, m, u.ChatID, "Enter the document number as digits:", nil)
			return
		}
		e.Sessions.Reset(u.Platform, u.ChatID)
		entries, lookupErr := e.Reports.Archive(ctx, report.Query{Number: number})
		if lookupErr != nil {
			e.replyError(ctx, m, u.ChatID, lookupErr)
			return
		}
		e.reply(ctx, m, u.ChatID, report.FormatEntries(entries), e.mainMenu())

	case StateArchiveDate:
		e.Sessions.Reset(u.Platform, u.ChatID)
		entries, err := e.Reports.Archive(ctx, report.Query{DateFragment: utils.NormalizeDigits(text)})
		if err != nil {
			e.replyError(ctx, m, u.ChatID, err)
			return
		}
		e.reply(ctx, m, u.ChatID, report.FormatEntries(entries), e.mainMenu())

	default:
		e.Sessions.Reset(u.Platform, u.ChatID)
		e.reply(ctx, m, u.ChatID, "Let's start over.", e.mainMenu())
	}
}

func (e *Engine) finishOrder(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User, sess *Session, description string) {
	e.Sessions.Reset(u.Platform, u.ChatID)

	amount, _ := decimal.NewFromString(sess.Data["amount"])
	doc, err := e.Orders.Create(ctx, order.CreateOrderInput{
		Amount:      amount,
		Payee:       sess.Data["payee"],
		Description: description,
		Company:     e.Config.Company,
	}, actor.Username)
	if err != nil {
		e.replyError(ctx, m, u.ChatID, err)
		return
	}

	e.Dispatcher.NotifyRole(approval.NextRole(models.DocTypeOrder, doc.Status),
		"New payment order",
		fmt.Sprintf("Payment order #%d (%s) from %s awaits financial review", doc.Number, doc.Payee, actor.DisplayName()),
		&notification.Card{DocType: models.DocTypeOrder, DocID: doc.ID, Number: doc.Number, Document: doc})

	e.reply(ctx, m, u.ChatID,
		fmt.Sprintf("Payment order #%d submitted for financial review.", doc.Number), e.mainMenu())
}

func (e *Engine) finishPermit(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User, sess *Session, count int) {
	e.Sessions.Reset(u.Platform, u.ChatID)

	doc, err := e.Permits.Create(ctx, permit.CreatePermitInput{
		Recipient: sess.Data["recipient"],
		Goods:     sess.Data["goods"],
		Count:     count,
		Company:   e.Config.Company,
	}, actor.Username)
	if err != nil {
		e.replyError(ctx, m, u.ChatID, err)
		return
	}

	e.Dispatcher.NotifyRole(approval.NextRole(models.DocTypePermit, doc.Status),
		"New exit permit",
		fmt.Sprintf("Exit permit #%d (%s for %s) from %s awaits approval", doc.Number, doc.Goods, doc.Recipient, actor.DisplayName()),
		&notification.Card{DocType: models.DocTypePermit, DocID: doc.ID, Number: doc.Number, Document: doc})

	e.reply(ctx, m, u.ChatID,
		fmt.Sprintf("Exit permit #%d submitted for approval.", doc.Number), e.mainMenu())
}

func (e *Engine) handleCallback(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User) {
	intent := ParseCallback(u.Callback)
	if intent == nil {
		e.reply(ctx, m, u.ChatID, "That button is no longer valid.", e.mainMenu())
		return
	}
	e.execute(ctx, m, u, actor, intent.Action, intent.DocType, intent.DocID)
}

func (e *Engine) handleIntent(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User, intent *Intent) {
	matches := e.findByNumber(intent.DocType, intent.Number)
	switch len(matches) {
	case 0:
		e.reply(ctx, m, u.ChatID, fmt.Sprintf("No document #%d found.", intent.Number), e.mainMenu())
	case 1:
		e.execute(ctx, m, u, actor, intent.Action, matches[0].docType, matches[0].id)
	default:
		e.reply(ctx, m, u.ChatID,
			fmt.Sprintf("Several documents share #%d. Name the type, for example \"%s payment %d\".", intent.Number, intent.Action, intent.Number),
			e.mainMenu())
	}
}

func (e *Engine) execute(ctx context.Context, m bots.Messenger, u bots.Update, actor *models.User, action Action, docType models.DocType, id string) {
	var result *approval.Result
	var err error
	if action == ActionReject {
		result, err = e.Approvals.Reject(ctx, docType, id, actor)
	} else {
		result, err = e.Approvals.Approve(ctx, docType, id, actor)
	}
	if err != nil {
		e.reply(ctx, m, u.ChatID, transitionMessage(err), e.mainMenu())
		return
	}

	doc, requester := e.lookup(docType, id)
	if doc != nil {
		notification.Announce(e.Dispatcher, result, docLabel(docType), requester, doc)
	}

	switch {
	case result.Rejected:
		e.reply(ctx, m, u.ChatID, fmt.Sprintf("%s #%d rejected.", docLabel(docType), result.Number), e.mainMenu())
	case result.Terminal:
		e.reply(ctx, m, u.ChatID, fmt.Sprintf("%s #%d fully approved.", docLabel(docType), result.Number), e.mainMenu())
	default:
		e.reply(ctx, m, u.ChatID,
			fmt.Sprintf("%s #%d approved; now waiting on %s.", docLabel(docType), result.Number, result.NextRole), e.mainMenu())
	}
}

type docRef struct {
	docType models.DocType
	id      string
}

// findByNumber resolves a human-facing number to documents. An untyped
// command only considers orders and permits; bijaks must be named
// explicitly ("approve bijak N") so a colliding bijak number never
// shadows an order or permit.
func (e *Engine) findByNumber(docType models.DocType, number int) []docRef {
	var refs []docRef
	_ = e.Store.View(func(d *store.Data) error {
		if docType == "" || docType == models.DocTypeOrder {
			for _, doc := range d.Orders {
				if doc.Number == number {
					refs = append(refs, docRef{models.DocTypeOrder, doc.ID})
				}
			}
		}
		if docType == "" || docType == models.DocTypePermit {
			for _, doc := range d.Permits {
				if doc.Number == number {
					refs = append(refs, docRef{models.DocTypePermit, doc.ID})
				}
			}
		}
		if docType == models.DocTypeBijak {
			for _, doc := range d.Bijaks {
				if doc.Number == number {
					refs = append(refs, docRef{models.DocTypeBijak, doc.ID})
				}
			}
		}
		return nil
	})
	return refs
}

// lookup fetches the full document and its requester for the follow-up
// notification after a transition.
func (e *Engine) lookup(docType models.DocType, id string) (interface{}, string) {
	var doc interface{}
	var requester string
	_ = e.Store.View(func(d *store.Data) error {
		switch docType {
		case models.DocTypeOrder:
			for i := range d.Orders {
				if d.Orders[i].ID == id {
					copied := d.Orders[i]
					doc, requester = &copied, copied.Requester
				}
			}
		case models.DocTypePermit:
			for i := range d.Permits {
				if d.Permits[i].ID == id {
					copied := d.Permits[i]
					doc, requester = &copied, copied.Requester
				}
			}
		case models.DocTypeBijak:
			for i := range d.Bijaks {
				if d.Bijaks[i].ID == id {
					copied := d.Bijaks[i]
					doc, requester = &copied, copied.Requester
				}
			}
		}
		return nil
	})
	return doc, requester
}

func (e *Engine) can(ctx context.Context, actor *models.User, capability string) bool {
	allowed, err := e.Roles.HasCapability(ctx, actor.Role, capability)
	return err == nil && allowed
}

func (e *Engine) reply(ctx context.Context, m bots.Messenger, chatID int64, text string, kb *bots.Keyboard) {
	if err := m.SendText(ctx, chatID, text, kb); err != nil {
		e.Logger.Warn("chat reply failed",
			zap.String("platform", m.Name()),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (e *Engine) replyError(ctx context.Context, m bots.Messenger, chatID int64, err error) {
	e.Logger.Error("chat operation failed", zap.Error(err))
	e.reply(ctx, m, chatID, "Something went wrong. Try again.", e.mainMenu())
}

func (e *Engine) mainMenu() *bots.Keyboard {
	return &bots.Keyboard{
		Rows: [][]bots.Button{
			{{Text: menuNewOrder}},
			{{Text: menuNewPermit}},
			{{Text: menuPendingTasks}},
			{{Text: menuArchiveNumber}, {Text: menuArchiveDate}},
		},
	}
}

func transitionMessage(err error) string {
	switch err {
	case approval.ErrNotFound:
		return "Document not found."
	case approval.ErrNotPermitted:
		return "You are not allowed to act on this document at its current stage."
	case approval.ErrTerminal:
		return "This document cannot be changed further."
	}
	return "Something went wrong. Try again."
}

func docLabel(docType models.DocType) string {
	switch docType {
	case models.DocTypeOrder:
		return "Payment order"
	case models.DocTypePermit:
		return "Exit permit"
	case models.DocTypeBijak:
		return "Bijak"
	}
	return "Document"
}
