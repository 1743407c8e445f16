package role

import (
	"context"
	"fmt"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/store"
)

type RoleService interface {
	// Effective merges the hard-coded defaults with stored overrides.
	// admin holds every capability unconditionally; critical approval
	// capabilities are re-enabled after the merge.
	Effective(ctx context.Context, role models.Role) (map[string]bool, error)
	HasCapability(ctx context.Context, role models.Role, capability string) (bool, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	SetOverrides(ctx context.Context, role models.Role, overrides map[string]bool) error
}

type RoleServiceImpl struct {
	Store *store.Store
}

func NewRoleService(st *store.Store) RoleService {
	return &RoleServiceImpl{Store: st}
}

// Merge computes the effective capability set for one role against a
// given override table. Pure, so both the service and tests use it.
func Merge(role models.Role, overrides map[models.Role]map[string]bool) map[string]bool {
	caps := map[string]bool{}
	for code, allowed := range defaults[role] {
		caps[code] = allowed
	}
	for code, allowed := range overrides[role] {
		caps[code] = allowed
	}
	for _, code := range criticalCaps[role] {
		caps[code] = true
	}
	return caps
}

func (s *RoleServiceImpl) Effective(ctx context.Context, role models.Role) (map[string]bool, error) {
	var caps map[string]bool
	err := s.Store.View(func(d *store.Data) error {
		caps = Merge(role, d.Settings.RoleOverrides)
		return nil
	})
	return caps, err
}

func (s *RoleServiceImpl) HasCapability(ctx context.Context, role models.Role, capability string) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}
	caps, err := s.Effective(ctx, role)
	if err != nil {
		return false, err
	}
	return caps[capability], nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]models.Role, error) {
	return Roles, nil
}

func (s *RoleServiceImpl) SetOverrides(ctx context.Context, role models.Role, overrides map[string]bool) error {
	if role == models.RoleAdmin {
		return fmt.Errorf("admin capabilities cannot be overridden")
	}
	return s.Store.Update(func(d *store.Data) error {
		if d.Settings.RoleOverrides == nil {
			d.Settings.RoleOverrides = map[models.Role]map[string]bool{}
		}
		d.Settings.RoleOverrides[role] = overrides
		d.Settings.UpdatedAt = time.Now()
		return nil
	})
}
