package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"taskmaster/internal/config"
)

func reset() {
	Logger = newDiscardLogger()
	once = sync.Once{}
	closer = nil
	writers = nil
	debugOut = false
}

func TestInit_FileGetsJSON(t *testing.T) {
	reset()
	t.Cleanup(reset)

	path := filepath.Join(t.TempDir(), "taskmaster.log")
	Init(&config.Config{LogFile: path, LogLevel: "info"}, nil)
	Logger.WithField("task_id", "t1").Info("task created")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", lines[len(lines)-1], err)
	}
	if entry["message"] != "task created" || entry["task_id"] != "t1" || entry["level"] != "info" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_DebugToErrOut(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Init(&config.Config{Debug: true, LogLevel: "warn"}, &buf)
	Logger.Debug("hello")

	if Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", Logger.GetLevel())
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestInit_OnlyOnce(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var first, second bytes.Buffer
	Init(&config.Config{Debug: true}, &first)
	Init(&config.Config{Debug: true}, &second)
	Logger.Info("once")

	if second.Len() != 0 {
		t.Errorf("second Init should be ignored, got %q", second.String())
	}
	if !bytes.Contains(first.Bytes(), []byte("once")) {
		t.Errorf("expected output on first writer, got %q", first.String())
	}
}

func TestInit_LaterDebugEnablesOutput(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Init(&config.Config{LogLevel: "info"}, &buf)
	Logger.Debug("before")
	Init(&config.Config{Debug: true, LogLevel: "info"}, &buf)
	Logger.Debug("after")

	if bytes.Contains(buf.Bytes(), []byte("before")) {
		t.Errorf("debug entry logged before --debug: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("after")) {
		t.Errorf("expected debug output after --debug, got %q", buf.String())
	}
	if Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", Logger.GetLevel())
	}
}

func TestWithRequestID(t *testing.T) {
	l := newDiscardLogger()
	if e := WithRequestID(l, "abc"); e.Data["request_id"] != "abc" {
		t.Errorf("expected request_id field, got %v", e.Data)
	}
	if e := WithRequestID(l, ""); len(e.Data) != 0 {
		t.Errorf("expected no fields, got %v", e.Data)
	}
}
