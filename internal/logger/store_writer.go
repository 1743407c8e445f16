package logger

import (
	"fmt"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Caller  string
}

// StoreLogWriter appends warn+ entries to the store's events collection
// asynchronously, so delivery failures stay observable without the
// logging path ever blocking a handler.
type StoreLogWriter struct {
	store   *store.Store
	logChan chan LogEntry
}

// NewStoreLogWriter initializes the worker
func NewStoreLogWriter(st *store.Store) *StoreLogWriter {
	writer := &StoreLogWriter{
		store:   st,
		logChan: make(chan LogEntry, 1000),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *StoreLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the caller.
		fmt.Println("Event channel full! Dropping log:", entry.Message)
	}
}

func (w *StoreLogWriter) processLogs() {
	for entry := range w.logChan {
		event := models.Event{
			ID:        uuid.NewString(),
			Level:     entry.Level.String(),
			Message:   entry.Message,
			Caller:    entry.Caller,
			CreatedAt: time.Now().UTC(),
		}

		// Ignore persistence errors to keep the app running.
		_ = w.store.Update(func(d *store.Data) error {
			d.Events = append(d.Events, event)
			return nil
		})
	}
}
