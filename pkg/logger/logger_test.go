package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	var buf bytes.Buffer
	Init(InfoLevel, "text", &buf)
	log := Get()
	if log == nil {
		t.Fatal("Logger is nil")
	}
	log.Info("hello", "side", "console")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("output %q missing message", buf.String())
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(WarnLevel, "text", &buf)
	log := Get()
	log.Info("dropped")
	log.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info line logged at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn line missing")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(InfoLevel, "json", &buf)
	Get().Info("structured")
	if !strings.Contains(buf.String(), `"msg":"structured"`) {
		t.Errorf("output %q is not JSON formatted", buf.String())
	}
}

func TestLoggerErrorWithErr(t *testing.T) {
	var buf bytes.Buffer
	Init(ErrorLevel, "text", &buf)
	Get().ErrorWithErr("probe failed", errFake)
	if !strings.Contains(buf.String(), "fake") {
		t.Errorf("output %q missing wrapped error", buf.String())
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "fake" }
