package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/config"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Data is the full persisted snapshot: one array per entity plus the
// settings object. Every mutation reads, modifies, and writes the whole
// snapshot under the store mutex.
type Data struct {
	Orders        []models.PaymentOrder `json:"orders"`
	Permits       []models.ExitPermit   `json:"permits"`
	Bijaks        []models.Bijak        `json:"bijaks"`
	Users         []models.User         `json:"users"`
	Notifications []models.Notification `json:"notifications"`
	Events        []models.Event        `json:"events"`
	Settings      models.Settings       `json:"settings"`
}

// Store owns the snapshot file. All access goes through View/Update so
// two handlers can never interleave a read-modify-write cycle.
type Store struct {
	mu      sync.RWMutex
	path    string
	data    *Data
	repairs []string
}

// Open loads the snapshot at path, sanitizing whatever is malformed.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStore opens the configured snapshot and registers a final flush
// on shutdown.
func NewStore(lc fx.Lifecycle, cfg *config.Config) (*Store, error) {
	s, err := Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.persist()
		},
	})

	return s, nil
}

// View runs fn with read access to the snapshot. fn must not retain
// references past its return.
func (s *Store) View(fn func(*Data) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Update runs fn with exclusive access and persists the snapshot if fn
// succeeds. Returning an error from fn abandons the mutation.
func (s *Store) Update(fn func(*Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.data); err != nil {
		return err
	}
	return s.persist()
}

// Repairs returns the sanitization repairs performed at load time, for
// operational diagnosis.
func (s *Store) Repairs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.repairs...)
}

// LogRepairs emits one warning per load-time repair. The logger is
// built after the store, so this runs at startup rather than in Open.
func (s *Store) LogRepairs(logger *zap.Logger) {
	for _, r := range s.Repairs() {
		logger.Warn("store snapshot repaired", zap.String("repair", r))
	}
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.data = &Data{}
	case err != nil:
		return err
	default:
		var data Data
		if jerr := json.Unmarshal(raw, &data); jerr != nil {
			// Corrupt file: recover collection by collection.
			data = salvage(raw, &s.repairs)
		}
		s.data = &data
	}

	s.sanitize()
	return nil
}

// sanitize repairs the in-memory snapshot to known-good defaults so a
// missing or damaged collection never makes the store unusable.
func (s *Store) sanitize() {
	d := s.data
	if d.Orders == nil {
		d.Orders = []models.PaymentOrder{}
	}
	if d.Permits == nil {
		d.Permits = []models.ExitPermit{}
	}
	if d.Bijaks == nil {
		d.Bijaks = []models.Bijak{}
	}
	if d.Notifications == nil {
		d.Notifications = []models.Notification{}
	}
	if d.Events == nil {
		d.Events = []models.Event{}
	}
	if d.Settings.Counters == nil {
		d.Settings.Counters = map[models.DocType]int{}
	}
	if len(d.Users) == 0 {
		d.Users = []models.User{{
			ID:        uuid.NewString(),
			Username:  "admin",
			Password:  "admin",
			Role:      models.RoleAdmin,
			FullName:  "Administrator",
			CreatedAt: time.Now(),
		}}
		s.repairs = append(s.repairs, "users collection empty, seeded default administrator")
	}
}

// salvage decodes whatever collections survive in a corrupt snapshot
// and drops the rest.
func salvage(raw []byte, repairs *[]string) Data {
	*repairs = append(*repairs, "snapshot malformed, recovering per collection")

	var loose map[string]json.RawMessage
	data := Data{}
	if err := json.Unmarshal(raw, &loose); err != nil {
		*repairs = append(*repairs, "snapshot unreadable, starting empty")
		return data
	}

	tryDecode(loose["orders"], &data.Orders, "orders", repairs)
	tryDecode(loose["permits"], &data.Permits, "permits", repairs)
	tryDecode(loose["bijaks"], &data.Bijaks, "bijaks", repairs)
	tryDecode(loose["users"], &data.Users, "users", repairs)
	tryDecode(loose["notifications"], &data.Notifications, "notifications", repairs)
	tryDecode(loose["events"], &data.Events, "events", repairs)
	tryDecode(loose["settings"], &data.Settings, "settings", repairs)
	return data
}

func tryDecode(raw json.RawMessage, dst any, name string, repairs *[]string) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		*repairs = append(*repairs, "collection "+name+" malformed, reset to empty")
	}
}

// persist writes the whole snapshot atomically. Caller holds s.mu.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
