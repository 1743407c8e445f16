package role

import (
	"context"
	"path/filepath"
	"testing"

	"go-erp/internal/common/models"
	"go-erp/internal/store"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		role      models.Role
		overrides map[models.Role]map[string]bool
		cap       string
		want      bool
	}{
		{
			name: "defaults apply without overrides",
			role: models.RoleFinanceManager,
			cap:  CapPaymentCreate,
			want: true,
		},
		{
			name: "override grants extra capability",
			role: models.RoleStaff,
			overrides: map[models.Role]map[string]bool{
				models.RoleStaff: {CapReportView: true},
			},
			cap:  CapReportView,
			want: true,
		},
		{
			name: "override revokes non-critical capability",
			role: models.RoleFinanceManager,
			overrides: map[models.Role]map[string]bool{
				models.RoleFinanceManager: {CapPaymentCreate: false},
			},
			cap:  CapPaymentCreate,
			want: false,
		},
		{
			name: "critical gate cannot be revoked",
			role: models.RoleFinanceManager,
			overrides: map[models.Role]map[string]bool{
				models.RoleFinanceManager: {CapPaymentApproveFinancial: false},
			},
			cap:  CapPaymentApproveFinancial,
			want: true,
		},
		{
			name: "ceo bijak gate cannot be revoked",
			role: models.RoleCEO,
			overrides: map[models.Role]map[string]bool{
				models.RoleCEO: {CapBijakApprove: false},
			},
			cap:  CapBijakApprove,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := Merge(tt.role, tt.overrides)
			if caps[tt.cap] != tt.want {
				t.Errorf("Merge()[%s] = %v, want %v", tt.cap, caps[tt.cap], tt.want)
			}
		})
	}
}

func TestHasCapabilityAdminAlwaysPasses(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewRoleService(st)

	allowed, err := svc.HasCapability(context.Background(), models.RoleAdmin, "something.unknown")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("admin must hold every capability")
	}
}
