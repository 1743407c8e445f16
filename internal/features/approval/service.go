package approval

import (
	"context"
	"errors"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/features/role"
	"go-erp/internal/store"

	"go.uber.org/zap"
)

var (
	// ErrNotFound: no document with that id in the collection.
	ErrNotFound = errors.New("document not found")
	// ErrNotPermitted: the acting role lacks the capability gating the
	// document's current status.
	ErrNotPermitted = errors.New("not permitted")
	// ErrTerminal: the document is fully approved or rejected and
	// cannot be changed further. Distinct from ErrNotPermitted.
	ErrTerminal = errors.New("document cannot be changed further")
)

// Result describes one executed transition, carrying what the
// notification fan-out needs.
type Result struct {
	DocType   models.DocType
	DocID     string
	Number    int
	NewStatus models.Status
	NextRole  models.Role
	Terminal  bool
	Rejected  bool
}

// ApprovalService is the single place the role-gate precondition is
// enforced; every entry point (HTTP and chat) goes through it.
type ApprovalService interface {
	Approve(ctx context.Context, docType models.DocType, id string, actor *models.User) (*Result, error)
	Reject(ctx context.Context, docType models.DocType, id string, actor *models.User) (*Result, error)
}

type ApprovalServiceImpl struct {
	Store       *store.Store
	RoleService role.RoleService
	Logger      *zap.Logger
}

func NewApprovalService(st *store.Store, roleService role.RoleService, logger *zap.Logger) ApprovalService {
	return &ApprovalServiceImpl{
		Store:       st,
		RoleService: roleService,
		Logger:      logger,
	}
}

func (s *ApprovalServiceImpl) Approve(ctx context.Context, docType models.DocType, id string, actor *models.User) (*Result, error) {
	return s.act(ctx, docType, id, actor, false)
}

func (s *ApprovalServiceImpl) Reject(ctx context.Context, docType models.DocType, id string, actor *models.User) (*Result, error) {
	return s.act(ctx, docType, id, actor, true)
}

func (s *ApprovalServiceImpl) act(ctx context.Context, docType models.DocType, id string, actor *models.User, reject bool) (*Result, error) {
	var result *Result

	err := s.Store.Update(func(d *store.Data) error {
		env := findEnvelope(d, docType, id)
		if env == nil {
			return ErrNotFound
		}

		stage, pending := StageFor(docType, env.Status)
		if !pending {
			// Fully approved or already rejected: a no-op either way.
			return ErrTerminal
		}

		allowed, err := s.RoleService.HasCapability(ctx, actor.Role, stage.Capability)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrNotPermitted
		}

		if reject {
			env.Status = models.StatusRejected
		} else {
			next, nextRole, _ := Transition(docType, env.Status)
			env.Status = next
			if env.Approvers == nil {
				env.Approvers = map[models.Status]string{}
			}
			// Write-once per stage: the name of whoever executed it.
			env.Approvers[next] = actor.DisplayName()

			result = &Result{
				DocType:   docType,
				DocID:     env.ID,
				Number:    env.Number,
				NewStatus: next,
				NextRole:  nextRole,
				Terminal:  IsTerminal(docType, next),
			}
		}
		env.UpdatedAt = time.Now()

		if reject {
			result = &Result{
				DocType:   docType,
				DocID:     env.ID,
				Number:    env.Number,
				NewStatus: models.StatusRejected,
				Terminal:  true,
				Rejected:  true,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("document transitioned",
		zap.String("type", string(docType)),
		zap.String("id", result.DocID),
		zap.String("status", string(result.NewStatus)),
		zap.String("actor", actor.Username))

	return result, nil
}

// findEnvelope locates the envelope of a document inside the snapshot.
// The returned pointer aliases the snapshot and is only valid inside
// the Update closure that produced it.
func findEnvelope(d *store.Data, docType models.DocType, id string) *models.Envelope {
	switch docType {
	case models.DocTypeOrder:
		for i := range d.Orders {
			if d.Orders[i].ID == id {
				return &d.Orders[i].Envelope
			}
		}
	case models.DocTypePermit:
		for i := range d.Permits {
			if d.Permits[i].ID == id {
				return &d.Permits[i].Envelope
			}
		}
	case models.DocTypeBijak:
		for i := range d.Bijaks {
			if d.Bijaks[i].ID == id {
				return &d.Bijaks[i].Envelope
			}
		}
	}
	return nil
}
