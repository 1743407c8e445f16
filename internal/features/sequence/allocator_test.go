package sequence

import (
	"testing"

	"go-erp/internal/common/models"
	"go-erp/internal/store"
)

func orderWith(number int, company string) models.PaymentOrder {
	return models.PaymentOrder{Envelope: models.Envelope{Number: number, Company: company}}
}

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name    string
		data    store.Data
		docType models.DocType
		company string
		want    int
	}{
		{
			name:    "empty scope falls back",
			data:    store.Data{},
			docType: models.DocTypeOrder,
			company: "acme",
			want:    FallbackNumber,
		},
		{
			name: "continues after observed max",
			data: store.Data{Orders: []models.PaymentOrder{
				orderWith(1001, "acme"),
				orderWith(1005, "acme"),
				orderWith(1002, "acme"),
			}},
			docType: models.DocTypeOrder,
			company: "acme",
			want:    1006,
		},
		{
			name: "companies do not share a sequence",
			data: store.Data{Orders: []models.PaymentOrder{
				orderWith(1005, "acme"),
			}},
			docType: models.DocTypeOrder,
			company: "globex",
			want:    FallbackNumber,
		},
		{
			name: "fiscal year floor wins on empty scope",
			data: store.Data{Settings: models.Settings{
				FiscalYears: []models.FiscalYearConfig{
					{Company: "acme", Floors: map[models.DocType]int{models.DocTypeOrder: 5000}},
				},
			}},
			docType: models.DocTypeOrder,
			company: "acme",
			want:    5000,
		},
		{
			name: "floor above observed max restarts from floor",
			data: store.Data{
				Orders: []models.PaymentOrder{orderWith(1010, "acme")},
				Settings: models.Settings{FiscalYears: []models.FiscalYearConfig{
					{Company: "acme", Floors: map[models.DocType]int{models.DocTypeOrder: 5000}},
				}},
			},
			docType: models.DocTypeOrder,
			company: "acme",
			want:    5000,
		},
		{
			name: "global counter used when no fiscal year",
			data: store.Data{Settings: models.Settings{
				Counters: map[models.DocType]int{models.DocTypeOrder: 2000},
			}},
			docType: models.DocTypeOrder,
			company: "acme",
			want:    2001,
		},
		{
			name: "types do not share a sequence",
			data: store.Data{
				Orders: []models.PaymentOrder{orderWith(1005, "acme")},
			},
			docType: models.DocTypePermit,
			company: "acme",
			want:    FallbackNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextNumber(&tt.data, tt.docType, tt.company)
			if got != tt.want {
				t.Errorf("NextNumber() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordKeepsMaximum(t *testing.T) {
	d := store.Data{}
	Record(&d, models.DocTypeOrder, 1005)
	Record(&d, models.DocTypeOrder, 1002)

	if got := d.Settings.Counters[models.DocTypeOrder]; got != 1005 {
		t.Errorf("counter = %d, want 1005", got)
	}
}
