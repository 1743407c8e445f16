package order

import (
	"context"
	"errors"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/features/approval"
	"go-erp/internal/features/sequence"
	"go-erp/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("payment order not found")

// CreateOrderInput is the payload for a new payment order.
type CreateOrderInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee"`
	Description string          `json:"description"`
	Company     string          `json:"company"`
}

// UpdateOrderInput edits the business payload only; status, number and
// the approver trail are never touched by an edit.
type UpdateOrderInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee"`
	Description string          `json:"description"`
}

type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput, requester string) (*models.PaymentOrder, error)
	GetByID(ctx context.Context, id string) (*models.PaymentOrder, error)
	List(ctx context.Context, status models.Status, company string) ([]models.PaymentOrder, error)
	Update(ctx context.Context, id string, input UpdateOrderInput) (*models.PaymentOrder, error)
	Delete(ctx context.Context, id string) error
}

type OrderServiceImpl struct {
	Store *store.Store
}

func NewOrderService(st *store.Store) OrderService {
	return &OrderServiceImpl{Store: st}
}

// Create allocates the number and inserts the document in one critical
// section, so concurrent creations in the same scope never collide.
func (s *OrderServiceImpl) Create(ctx context.Context, input CreateOrderInput, requester string) (*models.PaymentOrder, error) {
	now := time.Now()
	doc := models.PaymentOrder{
		Envelope: models.Envelope{
			ID:        uuid.NewString(),
			Status:    approval.InitialStatus(models.DocTypeOrder),
			Company:   input.Company,
			Requester: requester,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Amount:      input.Amount,
		Payee:       input.Payee,
		Description: input.Description,
	}

	err := s.Store.Update(func(d *store.Data) error {
		doc.Number = sequence.NextNumber(d, models.DocTypeOrder, doc.Company)
		sequence.Record(d, models.DocTypeOrder, doc.Number)
		d.Orders = append(d.Orders, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *OrderServiceImpl) GetByID(ctx context.Context, id string) (*models.PaymentOrder, error) {
	var found *models.PaymentOrder
	err := s.Store.View(func(d *store.Data) error {
		for i := range d.Orders {
			if d.Orders[i].ID == id {
				doc := d.Orders[i]
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

func (s *OrderServiceImpl) List(ctx context.Context, status models.Status, company string) ([]models.PaymentOrder, error) {
	var orders []models.PaymentOrder
	err := s.Store.View(func(d *store.Data) error {
		for _, doc := range d.Orders {
			if status != "" && doc.Status != status {
				continue
			}
			if company != "" && doc.Company != company {
				continue
			}
			orders = append(orders, doc)
		}
		return nil
	})
	return orders, err
}

func (s *OrderServiceImpl) Update(ctx context.Context, id string, input UpdateOrderInput) (*models.PaymentOrder, error) {
	var updated *models.PaymentOrder
	err := s.Store.Update(func(d *store.Data) error {
		for i := range d.Orders {
			if d.Orders[i].ID == id {
				d.Orders[i].Amount = input.Amount
				d.Orders[i].Payee = input.Payee
				d.Orders[i].Description = input.Description
				d.Orders[i].UpdatedAt = time.Now()
				doc := d.Orders[i]
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

// Delete removes the document regardless of status; the trail of a
// deleted document is gone with it.
func (s *OrderServiceImpl) Delete(ctx context.Context, id string) error {
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Orders {
			if d.Orders[i].ID == id {
				d.Orders = append(d.Orders[:i], d.Orders[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
