package permit

import (
	"context"
	"errors"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/features/approval"
	"go-erp/internal/features/sequence"
	"go-erp/internal/store"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("exit permit not found")

// CreatePermitInput is the payload for a new goods-exit permit.
type CreatePermitInput struct {
	Recipient string `json:"recipient"`
	Goods     string `json:"goods"`
	Count     int    `json:"count"`
	Company   string `json:"company"`
}

// UpdatePermitInput edits the business payload only.
type UpdatePermitInput struct {
	Recipient string `json:"recipient"`
	Goods     string `json:"goods"`
	Count     int    `json:"count"`
}

type PermitService interface {
	Create(ctx context.Context, input CreatePermitInput, requester string) (*models.ExitPermit, error)
	GetByID(ctx context.Context, id string) (*models.ExitPermit, error)
	List(ctx context.Context, status models.Status, company string) ([]models.ExitPermit, error)
	Update(ctx context.Context, id string, input UpdatePermitInput) (*models.ExitPermit, error)
	Delete(ctx context.Context, id string) error
}

type PermitServiceImpl struct {
	Store *store.Store
}

func NewPermitService(st *store.Store) PermitService {
	return &PermitServiceImpl{Store: st}
}

func (s *PermitServiceImpl) Create(ctx context.Context, input CreatePermitInput, requester string) (*models.ExitPermit, error) {
	now := time.Now()
	doc := models.ExitPermit{
		Envelope: models.Envelope{
			ID:        uuid.NewString(),
			Status:    approval.InitialStatus(models.DocTypePermit),
			Company:   input.Company,
			Requester: requester,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Recipient: input.Recipient,
		Goods:     input.Goods,
		Count:     input.Count,
	}

	err := s.Store.Update(func(d *store.Data) error {
		doc.Number = sequence.NextNumber(d, models.DocTypePermit, doc.Company)
		sequence.Record(d, models.DocTypePermit, doc.Number)
		d.Permits = append(d.Permits, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *PermitServiceImpl) GetByID(ctx context.Context, id string) (*models.ExitPermit, error) {
	var found *models.ExitPermit
	err := s.Store.View(func(d *store.Data) error {
		for i := range d.Permits {
			if d.Permits[i].ID == id {
				doc := d.Permits[i]
				found = &doc
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *PermitServiceImpl) List(ctx context.Context, status models.Status, company string) ([]models.ExitPermit, error) {
	var permits []models.ExitPermit
	err := s.Store.View(func(d *store.Data) error {
		for _, doc := range d.Permits {
			if status != "" && doc.Status != status {
				continue
			}
			if company != "" && doc.Company != company {
				continue
			}
			permits = append(permits, doc)
		}
		return nil
	})
	return permits, err
}

func (s *PermitServiceImpl) Update(ctx context.Context, id string, input UpdatePermitInput) (*models.ExitPermit, error) {
	var updated *models.ExitPermit
	err := s.Store.Update(func(d *store.Data) error {
		for i := range d.Permits {
			if d.Permits[i].ID == id {
				d.Permits[i].Recipient = input.Recipient
				d.Permits[i].Goods = input.Goods
				d.Permits[i].Count = input.Count
				d.Permits[i].UpdatedAt = time.Now()
				doc := d.Permits[i]
				updated = &doc
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PermitServiceImpl) Delete(ctx context.Context, id string) error {
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Permits {
			if d.Permits[i].ID == id {
				d.Permits = append(d.Permits[:i], d.Permits[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
