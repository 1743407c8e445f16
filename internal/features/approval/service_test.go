package approval

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go-erp/internal/common/models"
	"go-erp/internal/features/role"
	"go-erp/internal/store"

	"go.uber.org/zap"
)

func newFixture(t *testing.T) (ApprovalService, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewApprovalService(st, role.NewRoleService(st), zap.NewNop())
	return svc, st
}

func seedOrder(t *testing.T, st *store.Store, status models.Status) {
	t.Helper()
	err := st.Update(func(d *store.Data) error {
		d.Orders = append(d.Orders, models.PaymentOrder{
			Envelope: models.Envelope{ID: "o1", Number: 1001, Status: status, Requester: "staffer"},
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func orderStatus(t *testing.T, st *store.Store) models.Status {
	t.Helper()
	var status models.Status
	_ = st.View(func(d *store.Data) error {
		status = d.Orders[0].Status
		return nil
	})
	return status
}

func TestApproveAdvancesAndRecordsApprover(t *testing.T) {
	svc, st := newFixture(t)
	seedOrder(t, st, models.StatusPendingFinancialReview)

	actor := &models.User{ID: "u1", Username: "fm", FullName: "Finance Manager", Role: models.RoleFinanceManager}
	result, err := svc.Approve(context.Background(), models.DocTypeOrder, "o1", actor)
	if err != nil {
		t.Fatal(err)
	}

	if result.NewStatus != models.StatusApprovedFinancial {
		t.Errorf("status = %s, want %s", result.NewStatus, models.StatusApprovedFinancial)
	}
	if result.NextRole != models.RoleCEO {
		t.Errorf("next role = %s, want ceo", result.NextRole)
	}
	if result.Terminal {
		t.Error("first stage must not be terminal")
	}

	_ = st.View(func(d *store.Data) error {
		if got := d.Orders[0].Approvers[models.StatusApprovedFinancial]; got != "Finance Manager" {
			t.Errorf("approver = %q, want display name", got)
		}
		return nil
	})
}

func TestApproveRefusedForWrongRole(t *testing.T) {
	svc, st := newFixture(t)
	seedOrder(t, st, models.StatusPendingFinancialReview)

	actor := &models.User{ID: "u2", Username: "wk", Role: models.RoleWarehouseKeeper}
	_, err := svc.Approve(context.Background(), models.DocTypeOrder, "o1", actor)
	if !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("err = %v, want ErrNotPermitted", err)
	}

	// Refusal must leave the document untouched.
	if got := orderStatus(t, st); got != models.StatusPendingFinancialReview {
		t.Errorf("status changed to %s on refused approval", got)
	}
}

func TestApproveTerminalDocument(t *testing.T) {
	svc, st := newFixture(t)
	seedOrder(t, st, models.StatusApprovedFinal)

	actor := &models.User{ID: "u3", Username: "boss", Role: models.RoleAdmin}
	_, err := svc.Approve(context.Background(), models.DocTypeOrder, "o1", actor)
	if !errors.Is(err, ErrTerminal) {
		t.Fatalf("err = %v, want ErrTerminal", err)
	}
	if got := orderStatus(t, st); got != models.StatusApprovedFinal {
		t.Errorf("terminal document mutated to %s", got)
	}
}

func TestRejectFromAnyPendingStage(t *testing.T) {
	for _, status := range []models.Status{
		models.StatusPendingFinancialReview,
		models.StatusApprovedFinancial,
		models.StatusApprovedManagement,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, st := newFixture(t)
			seedOrder(t, st, status)

			gate := NextRole(models.DocTypeOrder, status)
			actor := &models.User{ID: "u4", Username: "gate", Role: gate}

			result, err := svc.Reject(context.Background(), models.DocTypeOrder, "o1", actor)
			if err != nil {
				t.Fatal(err)
			}
			if !result.Rejected || !result.Terminal {
				t.Errorf("result = %+v, want rejected terminal", result)
			}
			if got := orderStatus(t, st); got != models.StatusRejected {
				t.Errorf("status = %s, want rejected", got)
			}
		})
	}
}

func TestRejectRejectedDocument(t *testing.T) {
	svc, st := newFixture(t)
	seedOrder(t, st, models.StatusRejected)

	actor := &models.User{ID: "u5", Username: "boss", Role: models.RoleAdmin}
	if _, err := svc.Reject(context.Background(), models.DocTypeOrder, "o1", actor); !errors.Is(err, ErrTerminal) {
		t.Fatalf("err = %v, want ErrTerminal", err)
	}
}

func TestApproveUnknownDocument(t *testing.T) {
	svc, _ := newFixture(t)

	actor := &models.User{ID: "u6", Username: "boss", Role: models.RoleAdmin}
	if _, err := svc.Approve(context.Background(), models.DocTypeOrder, "missing", actor); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAdminMayActAtAnyStage(t *testing.T) {
	svc, st := newFixture(t)
	seedOrder(t, st, models.StatusApprovedFinancial)

	actor := &models.User{ID: "u7", Username: "boss", Role: models.RoleAdmin}
	result, err := svc.Approve(context.Background(), models.DocTypeOrder, "o1", actor)
	if err != nil {
		t.Fatal(err)
	}
	if result.NewStatus != models.StatusApprovedManagement {
		t.Errorf("status = %s, want %s", result.NewStatus, models.StatusApprovedManagement)
	}
}
