package logger

import (
	"courier-backend/models/log"
	"courier-backend/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request/response log entries to the database without
// blocking the request path. Handlers push entries with Log; ProcessLog drains
// the channel from its own goroutine (started in routes.SetupRoutes).
type AsyncLogger struct {
	db      *gorm.DB
	entries chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		entries: make(chan types.LogEntry, 256),
	}
}

// Log enqueues an entry. Entries are dropped when the buffer is full rather
// than stalling a request.
func (a *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case a.entries <- entry:
	default:
		Warning("async log buffer full, dropping entry for " + entry.URL)
	}
}

func (a *AsyncLogger) ProcessLog() {
	for entry := range a.entries {
		row := log.Log{
			Method:       entry.Method,
			URL:          entry.URL,
			RequestBody:  entry.RequestBody,
			ResponseBody: entry.ResponseBody,
			StatusCode:   entry.StatusCode,
			CreatedAt:    entry.CreatedAt,
		}
		if err := a.db.Create(&row).Error; err != nil {
			Error("Failed to persist request log", err)
		}
	}
}
