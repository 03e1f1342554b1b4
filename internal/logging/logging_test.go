package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"trace": logrus.TraceLevel,
		"DEBUG": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.WarnLevel,
		"bogus": logrus.WarnLevel,
	}
	for in, want := range tests {
		if got := Level(in); got != want {
			t.Errorf("Level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONToConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Params{Level: "info", JSON: true, Console: &buf})
	log.WithField("exercise", "Squat").Info("recorded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "recorded" || entry["exercise"] != "Squat" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Params{Console: &buf})
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at default level: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn not logged: %s", buf.String())
	}
}

func TestNewWithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "hf")
	log := New(Params{Level: "info", File: path, Console: &buf})
	log.Info("to both")

	data, err := os.ReadFile(path + ".log")
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") {
		t.Errorf("file missing entry: %s", data)
	}
	if !strings.Contains(buf.String(), "to both") {
		t.Errorf("console missing entry: %s", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestCombinedWriterContinuesPastFailure(t *testing.T) {
	var buf bytes.Buffer
	cw := &combinedWriter{writers: []io.Writer{failingWriter{}, &buf}}
	n, err := cw.Write([]byte("hello"))
	if err == nil {
		t.Error("expected error from failing writer")
	}
	if n != 5 || buf.String() != "hello" {
		t.Errorf("n = %d, buf = %q", n, buf.String())
	}
}
