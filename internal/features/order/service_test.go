package order

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go-erp/internal/common/models"
	"go-erp/internal/store"

	"github.com/shopspring/decimal"
)

func newService(t *testing.T) OrderService {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatal(err)
	}
	return NewOrderService(st)
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	input := CreateOrderInput{Amount: decimal.NewFromInt(100), Payee: "Acme", Company: "acme"}
	first, err := svc.Create(ctx, input, "staffer")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, input, "staffer")
	if err != nil {
		t.Fatal(err)
	}

	if first.Number != 1001 || second.Number != 1002 {
		t.Errorf("numbers = %d, %d; want 1001, 1002", first.Number, second.Number)
	}
	if first.Status != models.StatusPendingFinancialReview {
		t.Errorf("status = %s, want pending_financial_review", first.Status)
	}
	if first.ID == second.ID {
		t.Error("ids must be unique")
	}
}

func TestUpdateEditsPayloadOnly(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateOrderInput{Amount: decimal.NewFromInt(100), Payee: "Acme", Company: "acme"}, "staffer")
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, doc.ID, UpdateOrderInput{
		Amount: decimal.NewFromInt(250),
		Payee:  "Globex",
	})
	if err != nil {
		t.Fatal(err)
	}

	if updated.Payee != "Globex" || updated.Amount.String() != "250" {
		t.Errorf("payload not updated: %+v", updated)
	}
	// The envelope survives the edit untouched.
	if updated.Number != doc.Number || updated.Status != doc.Status || updated.Requester != doc.Requester {
		t.Errorf("envelope changed: %+v", updated.Envelope)
	}
}

func TestDeleteRegardlessOfStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateOrderInput{Amount: decimal.NewFromInt(100), Payee: "Acme", Company: "acme"}, "staffer")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateOrderInput{Amount: decimal.NewFromInt(1), Payee: "A", Company: "acme"}, "s"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, CreateOrderInput{Amount: decimal.NewFromInt(2), Payee: "B", Company: "globex"}, "s"); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d, want 2", len(all))
	}

	acme, err := svc.List(ctx, "", "acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(acme) != 1 || acme[0].Company != "acme" {
		t.Errorf("company filter = %+v", acme)
	}

	none, err := svc.List(ctx, models.StatusApprovedFinal, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("status filter leaked %d rows", len(none))
	}
}
