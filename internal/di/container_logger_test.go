package di_test

import (
	"context"
	"maps"
	"slices"
	"testing"

	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

func TestContainerBuildLogsThroughProvider(t *testing.T) {
	rec := newRecordingProvider()
	c, err := di.NewContainer(testConfig(), di.WithFS(contentFS()), di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, err := c.BuildAll(context.Background(), "Core"); err != nil {
		t.Fatalf("build: %v", err)
	}

	loaded := rec.find("wiki.loader.loaded")
	if loaded == nil {
		t.Fatalf("expected wiki.loader.loaded log entry, got %#v", rec.entries)
	}
	if got := loaded.fields["module"]; got != "wiki.loader" {
		t.Fatalf("expected module field to be wiki.loader, got %v", got)
	}
	if got := loaded.fields["language"]; got != "English" {
		t.Fatalf("expected language field English, got %v", got)
	}

	added := rec.find("wiki.registry.wiki_added")
	if added == nil {
		t.Fatalf("expected wiki.registry.wiki_added log entry")
	}
	if got := added.fields["title"]; got != "Core" {
		t.Fatalf("expected the pack name as wiki title, got %v", got)
	}
}

// recordingProvider keeps every entry in memory, keyed by message.
type recordingProvider struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider { return &recordingProvider{} }

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return recordingLogger{sink: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	idx := slices.IndexFunc(p.entries, func(e recordedEntry) bool { return e.msg == msg })
	if idx < 0 {
		return nil
	}
	return &p.entries[idx]
}

type recordingLogger struct {
	sink   *recordingProvider
	fields map[string]any
}

func (l recordingLogger) Trace(msg string, args ...any) { l.emit("trace", msg, args) }
func (l recordingLogger) Debug(msg string, args ...any) { l.emit("debug", msg, args) }
func (l recordingLogger) Info(msg string, args ...any)  { l.emit("info", msg, args) }
func (l recordingLogger) Warn(msg string, args ...any)  { l.emit("warn", msg, args) }
func (l recordingLogger) Error(msg string, args ...any) { l.emit("error", msg, args) }
func (l recordingLogger) Fatal(msg string, args ...any) { l.emit("fatal", msg, args) }

func (l recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return recordingLogger{sink: l.sink, fields: merged}
}

func (l recordingLogger) emit(level, msg string, args []any) {
	fields := maps.Clone(l.fields)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.sink.entries = append(l.sink.entries, recordedEntry{level: level, msg: msg, fields: fields})
}
