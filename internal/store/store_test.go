package store

import (
	"os"
	"path/filepath"
	"testing"

	"go-erp/internal/common/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func tempStore(t *testing.T, contents string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpenMissingFileSeedsDefaults(t *testing.T) {
	s := tempStore(t, "")

	err := s.View(func(d *Data) error {
		if len(d.Users) != 1 {
			t.Fatalf("expected seeded administrator, got %d users", len(d.Users))
		}
		u := d.Users[0]
		if u.Username != "admin" || u.Role != models.RoleAdmin {
			t.Errorf("seeded user = %q/%q, want admin/admin role", u.Username, u.Role)
		}
		if d.Orders == nil || d.Permits == nil || d.Bijaks == nil {
			t.Error("collections not initialized")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestOpenSalvagesCorruptSnapshot(t *testing.T) {
	// users parses, orders is garbage: keep the former, reset the latter.
	s := tempStore(t, `{
		"users": [{"id":"u1","username":"kept","role":"ceo"}],
		"orders": "not-an-array"
	}`)

	if len(s.Repairs()) == 0 {
		t.Error("expected repairs to be recorded")
	}

	_ = s.View(func(d *Data) error {
		if len(d.Users) != 1 || d.Users[0].Username != "kept" {
			t.Errorf("salvage lost users: %+v", d.Users)
		}
		if len(d.Orders) != 0 {
			t.Errorf("corrupt orders not reset: %+v", d.Orders)
		}
		return nil
	})
}

func TestOpenUnreadableSnapshotStartsEmpty(t *testing.T) {
	s := tempStore(t, "{{{{")

	_ = s.View(func(d *Data) error {
		if len(d.Users) != 1 {
			t.Errorf("expected only the seeded administrator, got %d users", len(d.Users))
		}
		return nil
	})
}

func TestUpdatePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	err = s.Update(func(d *Data) error {
		d.Orders = append(d.Orders, models.PaymentOrder{
			Envelope: models.Envelope{ID: "o1", Number: 1001, Status: models.StatusPendingFinancialReview},
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = reopened.View(func(d *Data) error {
		if len(d.Orders) != 1 || d.Orders[0].Number != 1001 {
			t.Errorf("reload lost order: %+v", d.Orders)
		}
		return nil
	})
}

func TestUpdateErrorAbandonsMutation(t *testing.T) {
	s := tempStore(t, "")

	wantErr := os.ErrInvalid
	err := s.Update(func(d *Data) error {
		d.Orders = append(d.Orders, models.PaymentOrder{Envelope: models.Envelope{ID: "o1"}})
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}

	// The snapshot file must not contain the abandoned write.
	reopened, err := Open(s.path)
	if err != nil {
		t.Fatal(err)
	}
	_ = reopened.View(func(d *Data) error {
		if len(d.Orders) != 0 {
			t.Errorf("abandoned mutation was persisted: %+v", d.Orders)
		}
		return nil
	})
}

func TestLogRepairsWarnsPerRepair(t *testing.T) {
	s := tempStore(t, `{"orders": "not-an-array"}`)
	if len(s.Repairs()) == 0 {
		t.Fatal("expected repairs to be recorded")
	}

	core, observed := observer.New(zapcore.WarnLevel)
	s.LogRepairs(zap.New(core))

	entries := observed.All()
	if len(entries) != len(s.Repairs()) {
		t.Fatalf("logged %d entries, want one per repair (%d)", len(entries), len(s.Repairs()))
	}
	for i, entry := range entries {
		if entry.Level != zapcore.WarnLevel {
			t.Errorf("entry %d level = %v, want warn", i, entry.Level)
		}
		if got := entry.ContextMap()["repair"]; got != s.Repairs()[i] {
			t.Errorf("entry %d repair = %v, want %q", i, got, s.Repairs()[i])
		}
	}
}
