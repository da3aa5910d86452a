package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"WARN", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"verbose", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestNewWithOutput_WritesJSON(t *testing.T) {
	var buffer bytes.Buffer
	log := NewWithOutput("info", &buffer)

	log.WithField("currency", "USD").Info("cache hit")
	log.Debug("suppressed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buffer.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not a single JSON entry: %v (%q)", err, buffer.String())
	}
	if entry["msg"] != "cache hit" {
		t.Errorf("msg = %v, want %q", entry["msg"], "cache hit")
	}
	if entry["currency"] != "USD" {
		t.Errorf("currency = %v, want %q", entry["currency"], "USD")
	}
}
