// Audit logging for shaderlint. Audit events are structured JSON lines
// describing analysis runs, one file per day, so that past runs can be
// inspected or diffed without re-running the analyzer.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Run lifecycle events
	AuditRunStart    AuditEventType = "run_start"
	AuditRunComplete AuditEventType = "run_complete"
	AuditRunError    AuditEventType = "run_error"

	// Per-pack events
	AuditPackDiscovered AuditEventType = "pack_discovered"
	AuditPackAnalyzed   AuditEventType = "pack_analyzed"
	AuditPackError      AuditEventType = "pack_error"

	// Output events
	AuditReportWritten     AuditEventType = "report_written"
	AuditEntityListWritten AuditEventType = "entity_list_written"

	// Catalog events
	AuditCatalogLoaded AuditEventType = "catalog_loaded"

	// Watch events
	AuditWatchEvent AuditEventType = "watch_event"

	// Performance
	AuditPerfMetric AuditEventType = "perf_metric"
	AuditPerfSlow   AuditEventType = "perf_slow"
)

// AuditEvent represents a structured audit log entry, written as one
// JSON line per event.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`               // Unix milliseconds
	EventType  AuditEventType         `json:"event"`            // Event type
	RunID      string                 `json:"run,omitempty"`    // Run correlation ID
	Pack       string                 `json:"pack,omitempty"`   // Shaderpack name if applicable
	Target     string                 `json:"target,omitempty"` // Target of operation (path, source)
	Success    bool                   `json:"success"`          // Operation succeeded
	DurationMs int64                  `json:"dur_ms,omitempty"` // Duration in milliseconds
	Error      string                 `json:"error,omitempty"`  // Error message if failed
	Message    string                 `json:"msg"`              // Human-readable message
	Fields     map[string]interface{} `json:"fields,omitempty"` // Additional structured fields
}

var (
	auditFile   *os.File
	auditMu     sync.Mutex
	auditLogger *AuditLogger
)

// AuditLogger writes structured audit events, optionally scoped to a run
type AuditLogger struct {
	runID string
}

// InitAudit initializes the audit logging system
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	optsMu.RLock()
	dir := opts.Dir
	optsMu.RUnlock()

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(dir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	header := fmt.Sprintf("# Audit log started at %s\n# Format: one JSON event per line\n", time.Now().Format(time.RFC3339))
	auditFile.WriteString(header)

	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns the global audit logger
func Audit() *AuditLogger {
	if auditLogger == nil {
		auditLogger = &AuditLogger{}
	}
	return auditLogger
}

// AuditWithRun creates an audit logger scoped to an analysis run
func AuditWithRun(runID string) *AuditLogger {
	return &AuditLogger{runID: runID}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.RunID == "" && a.runID != "" {
		event.RunID = a.runID
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// RunStart logs the start of an analysis run
func (a *AuditLogger) RunStart(runID string, packCount int) {
	a.Log(AuditEvent{
		EventType: AuditRunStart,
		RunID:     runID,
		Success:   true,
		Fields:    map[string]interface{}{"pack_count": packCount},
		Message:   fmt.Sprintf("Analysis run started: %s (%d packs)", runID, packCount),
	})
}

// RunComplete logs the end of an analysis run
func (a *AuditLogger) RunComplete(runID string, durationMs int64, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType:  AuditRunComplete,
		RunID:      runID,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Message:    fmt.Sprintf("Analysis run completed: %s (success=%v, %dms)", runID, success, durationMs),
	})
}

// PackAnalyzed logs a single shaderpack analysis result
func (a *AuditLogger) PackAnalyzed(pack string, missing int, durationMs int64, success bool, errMsg string) {
	eventType := AuditPackAnalyzed
	if !success {
		eventType = AuditPackError
	}
	a.Log(AuditEvent{
		EventType:  eventType,
		Pack:       pack,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Fields:     map[string]interface{}{"missing_blocks": missing},
		Message:    fmt.Sprintf("Pack analyzed: %s (%d missing, %dms, success=%v)", pack, missing, durationMs, success),
	})
}

// ReportWritten logs a report file write
func (a *AuditLogger) ReportWritten(pack, path string, size int64) {
	a.Log(AuditEvent{
		EventType: AuditReportWritten,
		Pack:      pack,
		Target:    path,
		Success:   true,
		Fields:    map[string]interface{}{"size": size},
		Message:   fmt.Sprintf("Report written: %s (%d bytes)", path, size),
	})
}

// EntityListWritten logs an entity list file write
func (a *AuditLogger) EntityListWritten(path string) {
	a.Log(AuditEvent{
		EventType: AuditEntityListWritten,
		Target:    path,
		Success:   true,
		Message:   fmt.Sprintf("Entity list written: %s", path),
	})
}

// CatalogLoaded logs a block catalog load
func (a *AuditLogger) CatalogLoaded(source string, blocks int, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditCatalogLoaded,
		Target:     source,
		Success:    true,
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"blocks": blocks},
		Message:    fmt.Sprintf("Catalog loaded: %s (%d blocks, %dms)", source, blocks, durationMs),
	})
}

// WatchEvent logs a filesystem event that triggered reanalysis
func (a *AuditLogger) WatchEvent(path, op string) {
	a.Log(AuditEvent{
		EventType: AuditWatchEvent,
		Target:    path,
		Success:   true,
		Fields:    map[string]interface{}{"op": op},
		Message:   fmt.Sprintf("Watch event: %s (%s)", path, op),
	})
}

// PerfMetric logs a performance metric
func (a *AuditLogger) PerfMetric(operation string, durationMs int64, threshold int64) {
	eventType := AuditPerfMetric
	success := true
	if threshold > 0 && durationMs > threshold {
		eventType = AuditPerfSlow
		success = false
	}
	fields := map[string]interface{}{}
	if threshold > 0 {
		fields["threshold_ms"] = threshold
	}
	a.Log(AuditEvent{
		EventType:  eventType,
		Target:     operation,
		DurationMs: durationMs,
		Success:    success,
		Fields:     fields,
		Message:    fmt.Sprintf("Perf: %s took %dms (threshold=%dms)", operation, durationMs, threshold),
	})
}
