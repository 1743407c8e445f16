package logger

import (
	"go.uber.org/zap/zapcore"
)

// StoreCore is a custom Zap Core that intercepts logs
type StoreCore struct {
	zapcore.Core
	writer *StoreLogWriter
}

// NewStoreCore wraps an existing core (like console logger) and mirrors
// warn+ entries into the store's events collection.
func NewStoreCore(baseCore zapcore.Core, writer *StoreLogWriter) zapcore.Core {
	return &StoreCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *StoreCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= zapcore.WarnLevel {
		c.writer.AddLog(LogEntry{
			Level:   entry.Level,
			Message: entry.Message,
			Caller:  entry.Caller.Function,
		})
	}

	// Call the underlying core so it still prints to console.
	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *StoreCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
