package settings

import (
	"context"
	"errors"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/store"
)

var ErrBadFloor = errors.New("floor must be a positive number")

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	SetCounter(ctx context.Context, docType models.DocType, value int) error
	SetFiscalYear(ctx context.Context, fy models.FiscalYearConfig) error
}

type SettingsServiceImpl struct {
	Store *store.Store
}

func NewSettingsService(st *store.Store) SettingsService {
	return &SettingsServiceImpl{Store: st}
}

func (s *SettingsServiceImpl) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.Store.View(func(d *store.Data) error {
		settings = d.Settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetCounter overrides the global counter floor for a document type.
// Lowering it below issued numbers is allowed; allocation takes the
// observed maximum into account, so numbers still never repeat.
func (s *SettingsServiceImpl) SetCounter(ctx context.Context, docType models.DocType, value int) error {
	if value <= 0 {
		return ErrBadFloor
	}
	return s.Store.Update(func(d *store.Data) error {
		if d.Settings.Counters == nil {
			d.Settings.Counters = map[models.DocType]int{}
		}
		d.Settings.Counters[docType] = value
		d.Settings.UpdatedAt = time.Now()
		return nil
	})
}

// SetFiscalYear replaces the floor table for one company, creating the
// entry when the company is new.
func (s *SettingsServiceImpl) SetFiscalYear(ctx context.Context, fy models.FiscalYearConfig) error {
	for _, floor := range fy.Floors {
		if floor <= 0 {
			return ErrBadFloor
		}
	}
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Settings.FiscalYears {
			if d.Settings.FiscalYears[i].Company == fy.Company {
				d.Settings.FiscalYears[i] = fy
				d.Settings.UpdatedAt = time.Now()
				return nil
			}
		}
		d.Settings.FiscalYears = append(d.Settings.FiscalYears, fy)
		d.Settings.UpdatedAt = time.Now()
		return nil
	})
}
