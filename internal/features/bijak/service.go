package bijak

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

var ErrNotFound = errors.New("bijak not found")

// CreateBijakInput is the payload for a new warehouse outbound
// transaction.
type CreateBijakInput struct {
	Driver  string             `json:"driver"`
	Items   []models.BijakItem `json:"items"`
	Company string             `json:"company"`
}

// UpdateBijakInput edits the business payload only.
type UpdateBijakInput struct {
	Driver string             `json:"driver"`
	Items  []models.BijakItem `json:"items"`
}

type BijakService interface {
	Create(ctx context.Context, input CreateBijakInput, requester string) (*models.Bijak, error)
	GetByID(ctx context.Context, id string) (*models.Bijak, error)
	List(ctx context.Context, status models.Status, company string) ([]models.Bijak, error)
	Update(ctx context.Context, id string, input UpdateBijakInput) (*models.Bijak, error)
	Delete(ctx context.Context, id string) error
}

type BijakServiceImpl struct {
	Store *store.Store
}

func NewBijakService(st *store.Store) BijakService {
	return &BijakServiceImpl{Store: st}
}

func (s *BijakServiceImpl) Create(ctx context.Context, input CreateBijakInput, requester string) (*models.Bijak, error) {
	now := time.Now()
	doc := models.Bijak{
		Envelope: models.Envelope{
			ID:        uuid.NewString(),
			Status:    approval.InitialStatus(models.DocTypeBijak),
			Company:   input.Company,
			Requester: requester,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Driver: input.Driver,
		Items:  input.Items,
	}

	err := s.Store.Update(func(d *store.Data) error {
		doc.Number = sequence.NextNumber(d, models.DocTypeBijak, doc.Company)
		sequence.Record(d, models.DocTypeBijak, doc.Number)
		d.Bijaks = append(d.Bijaks, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *BijakServiceImpl) GetByID(ctx context.Context, id string) (*models.Bijak, error) {
	var found *models.Bijak
	err := s.Store.View(func(d *store.Data) error {
		for i := range d.Bijaks {
			if d.Bijaks[i].ID == id {
				doc := d.Bijaks[i]
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

func (s *BijakServiceImpl) List(ctx context.Context, status models.Status, company string) ([]models.Bijak, error) {
	var bijaks []models.Bijak
	err := s.Store.View(func(d *store.Data) error {
		for _, doc := range d.Bijaks {
			if status != "" && doc.Status != status {
				continue
			}
			if company != "" && doc.Company != company {
				continue
			}
			bijaks = append(bijaks, doc)
		}
		return nil
	})
	return bijaks, err
}

func (s *BijakServiceImpl) Update(ctx context.Context, id string, input UpdateBijakInput) (*models.Bijak, error) {
	var updated *models.Bijak
	err := s.Store.Update(func(d *store.Data) error {
		for i := range d.Bijaks {
			if d.Bijaks[i].ID == id {
				d.Bijaks[i].Driver = input.Driver
				d.Bijaks[i].Items = input.Items
				d.Bijaks[i].UpdatedAt = time.Now()
				doc := d.Bijaks[i]
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

func (s *BijakServiceImpl) Delete(ctx context.Context, id string) error {
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Bijaks {
			if d.Bijaks[i].ID == id {
				d.Bijaks = append(d.Bijaks[:i], d.Bijaks[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
