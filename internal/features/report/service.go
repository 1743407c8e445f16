package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go-erp/internal/common/models"
	"go-erp/internal/features/approval"
	"go-erp/internal/store"
)

// Entry is one archive row, flattened across the document types.
type Entry struct {
	DocType   models.DocType `json:"doc_type"`
	ID        string         `json:"id"`
	Number    int            `json:"number"`
	Status    models.Status  `json:"status"`
	Company   string         `json:"company"`
	Requester string         `json:"requester"`
	Summary   string         `json:"summary"`
	Date      string         `json:"date"`
}

// Query narrows the archive. Number matches exactly; DateFragment is a
// substring match against the YYYY-MM-DD creation date, so "2026-03"
// returns a whole month.
type Query struct {
	DocType      models.DocType
	Number       int
	DateFragment string
}

type ReportService interface {
	// Archive returns documents that finished their chain, newest
	// first. Pending documents never show up here.
	Archive(ctx context.Context, q Query) ([]Entry, error)
	// Pending returns documents still waiting on the given role's gate.
	Pending(ctx context.Context, gate models.Role) ([]Entry, error)
	ExportOrders(ctx context.Context) ([]byte, error)
}

type ReportServiceImpl struct {
	Store *store.Store
}

func NewReportService(st *store.Store) ReportService {
	return &ReportServiceImpl{Store: st}
}

func (s *ReportServiceImpl) Archive(ctx context.Context, q Query) ([]Entry, error) {
	var entries []Entry
	err := s.Store.View(func(d *store.Data) error {
		collect(d, func(e Entry) bool {
			return approval.IsTerminal(e.DocType, e.Status) && matches(e, q)
		}, &entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries, nil
}

func (s *ReportServiceImpl) Pending(ctx context.Context, gate models.Role) ([]Entry, error) {
	var entries []Entry
	err := s.Store.View(func(d *store.Data) error {
		collect(d, func(e Entry) bool {
			return approval.NextRole(e.DocType, e.Status) == gate
		}, &entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries, nil
}

func matches(e Entry, q Query) bool {
	if q.DocType != "" && e.DocType != q.DocType {
		return false
	}
	if q.Number != 0 && e.Number != q.Number {
		return false
	}
	if q.DateFragment != "" && !strings.Contains(e.Date, q.DateFragment) {
		return false
	}
	return true
}

func collect(d *store.Data, keep func(Entry) bool, out *[]Entry) {
	for _, doc := range d.Orders {
		e := entry(models.DocTypeOrder, doc.Envelope,
			fmt.Sprintf("%s to %s", doc.Amount.String(), doc.Payee))
		if keep(e) {
			*out = append(*out, e)
		}
	}
	for _, doc := range d.Permits {
		e := entry(models.DocTypePermit, doc.Envelope,
			fmt.Sprintf("%d x %s for %s", doc.Count, doc.Goods, doc.Recipient))
		if keep(e) {
			*out = append(*out, e)
		}
	}
	for _, doc := range d.Bijaks {
		e := entry(models.DocTypeBijak, doc.Envelope,
			fmt.Sprintf("%d items, driver %s", len(doc.Items), doc.Driver))
		if keep(e) {
			*out = append(*out, e)
		}
	}
}

func entry(docType models.DocType, env models.Envelope, summary string) Entry {
	return Entry{
		DocType:   docType,
		ID:        env.ID,
		Number:    env.Number,
		Status:    env.Status,
		Company:   env.Company,
		Requester: env.Requester,
		Summary:   summary,
		Date:      env.CreatedAt.Format("2006-01-02"),
	}
}
