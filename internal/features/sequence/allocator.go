package sequence

import (
	"go-erp/internal/common/models"
	"go-erp/internal/store"
)

// FallbackNumber seeds a scope that has neither documents nor a
// configured floor.
const FallbackNumber = 1001

// Floor resolves the configured starting number for a (type, company)
// scope: the company's fiscal-year floor if present, else the global
// counter, else zero.
func Floor(d *store.Data, docType models.DocType, company string) int {
	for _, fy := range d.Settings.FiscalYears {
		if fy.Company == company {
			if floor, ok := fy.Floors[docType]; ok && floor > 0 {
				return floor
			}
		}
	}
	// Counters holds the last issued number, so the floor is one past.
	if last := d.Settings.Counters[docType]; last > 0 {
		return last + 1
	}
	return 0
}

// NextNumber computes the next human-facing number for a (type,
// company) pair. Pure over the snapshot; callers must invoke it inside
// the same Update critical section as the insertion so two creations
// can never pick the same number.
func NextNumber(d *store.Data, docType models.DocType, company string) int {
	observedMax := 0
	scan := func(env models.Envelope) {
		if env.Company == company && env.Number > observedMax {
			observedMax = env.Number
		}
	}

	switch docType {
	case models.DocTypeOrder:
		for _, doc := range d.Orders {
			scan(doc.Envelope)
		}
	case models.DocTypePermit:
		for _, doc := range d.Permits {
			scan(doc.Envelope)
		}
	case models.DocTypeBijak:
		for _, doc := range d.Bijaks {
			scan(doc.Envelope)
		}
	}

	floor := Floor(d, docType, company)
	switch {
	case observedMax >= floor && observedMax > 0:
		return observedMax + 1
	case floor > 0:
		return floor
	default:
		return FallbackNumber
	}
}

// Record persists the issued number as the new counter floor for the
// type. Must run in the same Update closure as the allocation.
func Record(d *store.Data, docType models.DocType, number int) {
	if d.Settings.Counters == nil {
		d.Settings.Counters = map[models.DocType]int{}
	}
	if number > d.Settings.Counters[docType] {
		d.Settings.Counters[docType] = number
	}
}
