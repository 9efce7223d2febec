package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventAnalysisStart    AuditEventType = "analysis.start"
	AuditEventAnalysisComplete AuditEventType = "analysis.complete"
	AuditEventAnalysisError    AuditEventType = "analysis.error"
	AuditEventInsightRun       AuditEventType = "insight.run"
	AuditEventExport           AuditEventType = "export"
	AuditEventGateRun          AuditEventType = "gate.run"
	AuditEventGraphStore       AuditEventType = "graph.store"
	AuditEventGraphLoad        AuditEventType = "graph.load"
	AuditEventVectorIndex      AuditEventType = "vector.index"
	AuditEventVectorSearch     AuditEventType = "vector.search"
	AuditEventConfigLoad       AuditEventType = "config.load"
)

// AuditEvent represents a single audit log entry.
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	EventType   AuditEventType         `json:"event_type"`
	SessionID   string                 `json:"session_id"`
	Structure   string                 `json:"structure,omitempty"`
	Component   string                 `json:"component,omitempty"`
	UserID      string                 `json:"user_id,omitempty"`
	Success     bool                   `json:"success"`
	Duration    time.Duration          `json:"duration_ms,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	ErrorCode   string                 `json:"error_code,omitempty"`
	ErrorDetail string                 `json:"error_detail,omitempty"`
}

// AuditLogger handles audit event logging.
type AuditLogger struct {
	mu        sync.Mutex
	writer    io.Writer
	sessionID string
	userID    string
	enabled   bool
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	Enabled    bool
	OutputPath string // File path or "stdout"/"stderr"
	SessionID  string
	UserID     string
}

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:    true,
		OutputPath: "stdout",
	}
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(config *AuditConfig) (*AuditLogger, error) {
	if config == nil {
		config = DefaultAuditConfig()
	}

	var writer io.Writer
	switch config.OutputPath {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		writer = f
	}

	sessionID := config.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}

	return &AuditLogger{
		writer:    writer,
		sessionID: sessionID,
		userID:    config.UserID,
		enabled:   config.Enabled,
	}, nil
}

// Log writes an audit event.
func (l *AuditLogger) Log(event *AuditEvent) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Fill in defaults
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}
	if event.UserID == "" {
		event.UserID = l.userID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	_, err = fmt.Fprintf(l.writer, "%s\n", data)
	return err
}

// LogAnalysisStart logs the start of a dependency analysis.
func (l *AuditLogger) LogAnalysisStart(ctx context.Context, structure string, componentCount int) {
	l.Log(&AuditEvent{
		EventType: AuditEventAnalysisStart,
		Structure: structure,
		Success:   true,
		Message:   fmt.Sprintf("Analysis of %s started", structure),
		Details: map[string]interface{}{
			"component_count": componentCount,
		},
	})
}

// LogAnalysisComplete logs a completed dependency analysis.
func (l *AuditLogger) LogAnalysisComplete(ctx context.Context, structure string, duration time.Duration, missingCount, cycleCount int) {
	l.Log(&AuditEvent{
		EventType: AuditEventAnalysisComplete,
		Structure: structure,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Analysis of %s completed", structure),
		Details: map[string]interface{}{
			"missing_count": missingCount,
			"cycle_count":   cycleCount,
		},
	})
}

// LogAnalysisError logs a failed dependency analysis.
func (l *AuditLogger) LogAnalysisError(ctx context.Context, structure string, err error) {
	l.Log(&AuditEvent{
		EventType:   AuditEventAnalysisError,
		Structure:   structure,
		Success:     false,
		Message:     fmt.Sprintf("Analysis of %s failed", structure),
		ErrorDetail: err.Error(),
	})
}

// LogInsight logs an insight computation.
func (l *AuditLogger) LogInsight(ctx context.Context, structure string, duration time.Duration, cycleCount, clusterCount int, mostCentral string) {
	l.Log(&AuditEvent{
		EventType: AuditEventInsightRun,
		Structure: structure,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Insight for %s computed", structure),
		Details: map[string]interface{}{
			"cycle_count":   cycleCount,
			"cluster_count": clusterCount,
			"most_central":  mostCentral,
		},
	})
}

// LogExport logs a report or graph export.
func (l *AuditLogger) LogExport(ctx context.Context, format, path string, size int) {
	l.Log(&AuditEvent{
		EventType: AuditEventExport,
		Success:   true,
		Message:   fmt.Sprintf("Exported %s to %s", format, path),
		Details: map[string]interface{}{
			"format": format,
			"path":   path,
			"size":   size,
		},
	})
}

// LogGateRun logs a gate pipeline run.
func (l *AuditLogger) LogGateRun(ctx context.Context, status string, passed, failed, skipped int, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType: AuditEventGateRun,
		Success:   failed == 0,
		Duration:  duration,
		Message:   fmt.Sprintf("Gate pipeline %s", status),
		Details: map[string]interface{}{
			"passed":  passed,
			"failed":  failed,
			"skipped": skipped,
		},
	})
}

// LogGraphStore logs a structure write to the graph database.
func (l *AuditLogger) LogGraphStore(ctx context.Context, uri, structure string, componentCount, dependencyCount int, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType: AuditEventGraphStore,
		Structure: structure,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Stored %s in graph database", structure),
		Details: map[string]interface{}{
			"uri":              uri,
			"component_count":  componentCount,
			"dependency_count": dependencyCount,
		},
	})
}

// LogGraphLoad logs a structure read from the graph database.
func (l *AuditLogger) LogGraphLoad(ctx context.Context, uri, structure string, componentCount int, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType: AuditEventGraphLoad,
		Structure: structure,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Loaded %s from graph database", structure),
		Details: map[string]interface{}{
			"uri":             uri,
			"component_count": componentCount,
		},
	})
}

// LogVectorIndex logs profile indexing into the vector store.
func (l *AuditLogger) LogVectorIndex(ctx context.Context, collection string, profileCount int, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType: AuditEventVectorIndex,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Indexed %d profiles in %s", profileCount, collection),
		Details: map[string]interface{}{
			"collection":    collection,
			"profile_count": profileCount,
		},
	})
}

// LogVectorSearch logs a similarity search.
func (l *AuditLogger) LogVectorSearch(ctx context.Context, component string, topK, resultCount int, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType: AuditEventVectorSearch,
		Component: component,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Similarity search for %s", component),
		Details: map[string]interface{}{
			"top_k":        topK,
			"result_count": resultCount,
		},
	})
}

// LogConfigLoad logs a configuration file load.
func (l *AuditLogger) LogConfigLoad(ctx context.Context, path string, warnings []string) {
	l.Log(&AuditEvent{
		EventType: AuditEventConfigLoad,
		Success:   true,
		Message:   fmt.Sprintf("Loaded configuration from %s", path),
		Details: map[string]interface{}{
			"path":     path,
			"warnings": warnings,
		},
	})
}

// Close closes the audit logger (if using a file).
func (l *AuditLogger) Close() error {
	if closer, ok := l.writer.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}
	return nil
}

// Global audit logger instance
var globalAuditLogger *AuditLogger
var auditOnce sync.Once

// InitGlobalAuditLogger initializes the global audit logger.
func InitGlobalAuditLogger(config *AuditConfig) error {
	var err error
	auditOnce.Do(func() {
		globalAuditLogger, err = NewAuditLogger(config)
	})
	return err
}

// Audit returns the global audit logger.
func Audit() *AuditLogger {
	if globalAuditLogger == nil {
		// Return a disabled logger if not initialized
		return &AuditLogger{enabled: false}
	}
	return globalAuditLogger
}
