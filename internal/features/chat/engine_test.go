package chat

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

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

	"go.uber.org/zap"
)

type captureMessenger struct {
	texts []string
}

func (c *captureMessenger) Name() string { return "bale" }

func (c *captureMessenger) SendText(ctx context.Context, chatID int64, text string, kb *bots.Keyboard) error {
	c.texts = append(c.texts, text)
	return nil
}

func (c *captureMessenger) SendImage(ctx context.Context, chatID int64, image []byte, caption string, kb *bots.Keyboard) error {
	c.texts = append(c.texts, caption)
	return nil
}

func (c *captureMessenger) Poll(ctx context.Context, offset int) ([]bots.Update, int, error) {
	return nil, offset, nil
}

func (c *captureMessenger) last(t *testing.T) string {
	t.Helper()
	if len(c.texts) == 0 {
		t.Fatal("no reply sent")
	}
	return c.texts[len(c.texts)-1]
}

type recordingDispatcher struct {
	roleTargets []models.Role
	userTargets []string
}

func (r *recordingDispatcher) NotifyRole(target models.Role, title, message string, card *notification.Card) {
	r.roleTargets = append(r.roleTargets, target)
}

func (r *recordingDispatcher) NotifyUser(username, title, message string, card *notification.Card) {
	r.userTargets = append(r.userTargets, username)
}

type fixture struct {
	engine     *Engine
	store      *store.Store
	messenger  *captureMessenger
	dispatcher *recordingDispatcher
}

func newEngineFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatal(err)
	}

	seed := []models.User{
		{ID: "u1", Username: "staffer", FullName: "Some Staffer", Role: models.RoleStaff, BaleChatID: 100},
		{ID: "u2", Username: "fm", FullName: "Finance Manager", Role: models.RoleFinanceManager, BaleChatID: 200},
	}
	if err := st.Update(func(d *store.Data) error {
		d.Users = seed
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	roles := role.NewRoleService(st)
	dispatcher := &recordingDispatcher{}
	engine := NewEngine(
		&config.Config{Company: "acme"},
		st,
		user.NewUserService(st),
		order.NewOrderService(st),
		permit.NewPermitService(st),
		approval.NewApprovalService(st, roles, zap.NewNop()),
		report.NewReportService(st),
		roles,
		dispatcher,
		NewSessionStore(),
		zap.NewNop(),
	)

	return &fixture{
		engine:     engine,
		store:      st,
		messenger:  &captureMessenger{},
		dispatcher: dispatcher,
	}
}

func (f *fixture) send(chatID int64, text string) {
	f.engine.HandleUpdate(context.Background(), f.messenger, bots.Update{
		Platform: "bale",
		ChatID:   chatID,
		Text:     text,
	})
}

func (f *fixture) press(chatID int64, data string) {
	f.engine.HandleUpdate(context.Background(), f.messenger, bots.Update{
		Platform: "bale",
		ChatID:   chatID,
		Callback: data,
	})
}

func TestUnknownChatIsTurnedAway(t *testing.T) {
	f := newEngineFixture(t)
	f.send(999, "/start")

	if !strings.Contains(f.messenger.last(t), "not linked") {
		t.Errorf("reply = %q, want not-linked message", f.messenger.last(t))
	}
}

func TestStartGreetsWithMenu(t *testing.T) {
	f := newEngineFixture(t)
	f.send(100, "/start")

	if !strings.Contains(f.messenger.last(t), "Some Staffer") {
		t.Errorf("reply = %q, want greeting with display name", f.messenger.last(t))
	}
}

func TestOrderCreationFlow(t *testing.T) {
	f := newEngineFixture(t)

	f.send(100, menuNewOrder)
	if !strings.Contains(f.messenger.last(t), "amount") {
		t.Fatalf("reply = %q, want amount prompt", f.messenger.last(t))
	}

	// Localized digits and separators must parse.
	f.send(100, "۱۲,۵۰۰")
	if !strings.Contains(f.messenger.last(t), "payee") {
		t.Fatalf("reply = %q, want payee prompt", f.messenger.last(t))
	}

	f.send(100, "Acme Supplies")
	f.send(100, "Office chairs")

	if !strings.Contains(f.messenger.last(t), "#1001") {
		t.Errorf("reply = %q, want confirmation with number", f.messenger.last(t))
	}

	_ = f.store.View(func(d *store.Data) error {
		if len(d.Orders) != 1 {
			t.Fatalf("orders = %d, want 1", len(d.Orders))
		}
		doc := d.Orders[0]
		if doc.Number != 1001 || doc.Status != models.StatusPendingFinancialReview {
			t.Errorf("order = #%d %s", doc.Number, doc.Status)
		}
		if doc.Requester != "staffer" || doc.Payee != "Acme Supplies" {
			t.Errorf("order fields = %q/%q", doc.Requester, doc.Payee)
		}
		if doc.Amount.String() != "12500" {
			t.Errorf("amount = %s, want 12500", doc.Amount.String())
		}
		return nil
	})

	if len(f.dispatcher.roleTargets) != 1 || f.dispatcher.roleTargets[0] != models.RoleFinanceManager {
		t.Errorf("notified roles = %v, want finance_manager", f.dispatcher.roleTargets)
	}
}

func TestOrderFlowRepromptsOnBadAmount(t *testing.T) {
	f := newEngineFixture(t)

	f.send(100, menuNewOrder)
	f.send(100, "a lot of money")

	if !strings.Contains(f.messenger.last(t), "digits") {
		t.Fatalf("reply = %q, want re-prompt", f.messenger.last(t))
	}

	// The flow must still be waiting for the amount.
	f.send(100, "500")
	if !strings.Contains(f.messenger.last(t), "payee") {
		t.Errorf("reply = %q, want payee prompt after valid amount", f.messenger.last(t))
	}
}

func TestOrderFlowRepromptsOnEmptyDescription(t *testing.T) {
	f := newEngineFixture(t)

	f.send(100, menuNewOrder)
	f.send(100, "500")
	f.send(100, "Acme Supplies")
	f.send(100, "   ")

	if !strings.Contains(f.messenger.last(t), "description cannot be empty") {
		t.Fatalf("reply = %q, want re-prompt", f.messenger.last(t))
	}
	_ = f.store.View(func(d *store.Data) error {
		if len(d.Orders) != 0 {
			t.Errorf("blank description created an order: %+v", d.Orders)
		}
		return nil
	})

	// The flow is still waiting; a real description finishes it.
	f.send(100, "Office chairs")
	_ = f.store.View(func(d *store.Data) error {
		if len(d.Orders) != 1 || d.Orders[0].Description != "Office chairs" {
			t.Errorf("orders = %+v, want one with description", d.Orders)
		}
		return nil
	})
}

func TestCancelResetsFlow(t *testing.T) {
	f := newEngineFixture(t)

	f.send(100, menuNewOrder)
	f.send(100, "cancel")
	f.send(100, "500")

	// After cancel, "500" is not an amount; it falls through to help.
	if !strings.Contains(f.messenger.last(t), "did not understand") {
		t.Errorf("reply = %q, want help message", f.messenger.last(t))
	}
}

func seedPendingOrder(t *testing.T, st *store.Store, id string, number int) {
	t.Helper()
	err := st.Update(func(d *store.Data) error {
		d.Orders = append(d.Orders, models.PaymentOrder{
			Envelope: models.Envelope{
				ID: id, Number: number, Company: "acme",
				Status: models.StatusPendingFinancialReview, Requester: "staffer",
			},
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestApproveCommandAdvancesDocument(t *testing.T) {
	f := newEngineFixture(t)
	seedPendingOrder(t, f.store, "o1", 1001)

	f.send(200, "approve 1001")

	if !strings.Contains(f.messenger.last(t), "approved") {
		t.Fatalf("reply = %q, want approval confirmation", f.messenger.last(t))
	}

	_ = f.store.View(func(d *store.Data) error {
		if d.Orders[0].Status != models.StatusApprovedFinancial {
			t.Errorf("status = %s, want approved_financial", d.Orders[0].Status)
		}
		return nil
	})

	// The next gate role hears about it.
	if len(f.dispatcher.roleTargets) != 1 || f.dispatcher.roleTargets[0] != models.RoleCEO {
		t.Errorf("notified roles = %v, want ceo", f.dispatcher.roleTargets)
	}
}

func TestApproveCommandRefusedForWrongRole(t *testing.T) {
	f := newEngineFixture(t)
	seedPendingOrder(t, f.store, "o1", 1001)

	f.send(100, "approve 1001")

	if !strings.Contains(f.messenger.last(t), "not allowed") {
		t.Fatalf("reply = %q, want refusal", f.messenger.last(t))
	}
	_ = f.store.View(func(d *store.Data) error {
		if d.Orders[0].Status != models.StatusPendingFinancialReview {
			t.Errorf("refused command mutated status to %s", d.Orders[0].Status)
		}
		return nil
	})
}

func TestApproveCommandUnknownNumber(t *testing.T) {
	f := newEngineFixture(t)
	f.send(200, "approve 9999")

	if !strings.Contains(f.messenger.last(t), "No document #9999") {
		t.Errorf("reply = %q, want not-found message", f.messenger.last(t))
	}
}

func TestApproveCommandAmbiguousNumber(t *testing.T) {
	f := newEngineFixture(t)
	seedPendingOrder(t, f.store, "o1", 1001)
	err := f.store.Update(func(d *store.Data) error {
		d.Permits = append(d.Permits, models.ExitPermit{
			Envelope: models.Envelope{
				ID: "p1", Number: 1001, Company: "acme",
				Status: models.StatusPendingCEO, Requester: "staffer",
			},
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	f.send(200, "approve 1001")

	if !strings.Contains(f.messenger.last(t), "Several documents") {
		t.Fatalf("reply = %q, want disambiguation prompt", f.messenger.last(t))
	}

	// Naming the type resolves it.
	f.send(200, "approve payment 1001")
	_ = f.store.View(func(d *store.Data) error {
		if d.Orders[0].Status != models.StatusApprovedFinancial {
			t.Errorf("typed command did not advance order: %s", d.Orders[0].Status)
		}
		if d.Permits[0].Status != models.StatusPendingCEO {
			t.Errorf("typed command touched the permit: %s", d.Permits[0].Status)
		}
		return nil
	})
}

func TestApproveCommandIgnoresBijakNumberCollision(t *testing.T) {
	f := newEngineFixture(t)
	seedPendingOrder(t, f.store, "o1", 1001)
	err := f.store.Update(func(d *store.Data) error {
		d.Bijaks = append(d.Bijaks, models.Bijak{
			Envelope: models.Envelope{
				ID: "b1", Number: 1001, Company: "acme",
				Status: models.StatusPendingCEO, Requester: "staffer",
			},
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// The bare command only considers orders and permits, so the bijak
	// sharing the number must not raise a disambiguation prompt.
	f.send(200, "approve 1001")

	if strings.Contains(f.messenger.last(t), "Several documents") {
		t.Fatalf("reply = %q, want the order approved outright", f.messenger.last(t))
	}
	_ = f.store.View(func(d *store.Data) error {
		if d.Orders[0].Status != models.StatusApprovedFinancial {
			t.Errorf("order status = %s, want approved_financial", d.Orders[0].Status)
		}
		if d.Bijaks[0].Status != models.StatusPendingCEO {
			t.Errorf("bijak was touched: %s", d.Bijaks[0].Status)
		}
		return nil
	})

	// The bijak stays reachable by naming its type. The finance manager
	// is not its gate, so resolution shows as a refusal, not not-found.
	f.send(200, "approve bijak 1001")
	if !strings.Contains(f.messenger.last(t), "not allowed") {
		t.Errorf("reply = %q, want refusal for the typed bijak command", f.messenger.last(t))
	}
}

func TestCallbackButtonApproves(t *testing.T) {
	f := newEngineFixture(t)
	seedPendingOrder(t, f.store, "o1", 1001)

	f.press(200, "approve:order:o1")

	_ = f.store.View(func(d *store.Data) error {
		if d.Orders[0].Status != models.StatusApprovedFinancial {
			t.Errorf("status = %s, want approved_financial", d.Orders[0].Status)
		}
		return nil
	})
}

func TestRejectNotifiesRequester(t *testing.T) {
	f := newEngineFixture(t)
	seedPendingOrder(t, f.store, "o1", 1001)

	f.send(200, "reject 1001")

	if !strings.Contains(f.messenger.last(t), "rejected") {
		t.Fatalf("reply = %q, want rejection confirmation", f.messenger.last(t))
	}
	if len(f.dispatcher.userTargets) != 1 || f.dispatcher.userTargets[0] != "staffer" {
		t.Errorf("notified users = %v, want requester", f.dispatcher.userTargets)
	}
}
