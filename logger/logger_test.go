package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func capture(t *testing.T, cfg Config, service string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return newLogger(&cfg, service, &buf), &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"debug", "info", "warn", "error"}},
		{"warn", []string{"warn", "error"}},
		{"", []string{"info", "warn", "error"}},
		{"loud", []string{"info", "warn", "error"}},
	}
	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			log, buf := capture(t, Config{Level: tt.level, Format: FormatJSON}, "fileflow")
			log.Debug("d")
			log.Info("i")
			log.Warn("w")
			log.Error("e")

			got := entries(t, buf)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(got))
			}
			for i, e := range got {
				if e["level"] != tt.want[i] {
					t.Errorf("entry %d: level %v, want %s", i, e["level"], tt.want[i])
				}
			}
		})
	}
}

func TestTaskDecisionEntry(t *testing.T) {
	log, buf := capture(t, Config{Level: "debug", Format: FormatJSON}, "fileflow")
	log.WithComponent("dag").WithRunID("r-7").Info("up to date, skipping",
		Fields(FieldTask, "sort", FieldDecision, "skip"),
		MergeWithError(nil, errors.New("stale input")))

	got := entries(t, buf)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	want := map[string]interface{}{
		"service":      "fileflow",
		FieldComponent: "dag",
		FieldRunID:     "r-7",
		FieldTask:      "sort",
		FieldDecision:  "skip",
		FieldError:     "stale input",
		"message":      "up to date, skipping",
	}
	for k, v := range want {
		if got[0][k] != v {
			t.Errorf("%s: got %v, want %v", k, got[0][k], v)
		}
	}
}

func TestConsoleEntry(t *testing.T) {
	log, buf := capture(t, Config{Level: "info", Format: FormatConsole, NoColor: true}, "fileflow")
	log.WithComponent("flow").Warn("missing input", Fields(FieldFile, "in.csv"))

	out := buf.String()
	for _, want := range []string{"[WAR]", "missing input", "component:flow", "file:in.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no color codes in %q", out)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop().WithComponent("dag")
	log.Error("nothing")
}

func TestInitReplacesGlobal(t *testing.T) {
	globalMu.Lock()
	prev := global
	global = nil
	globalMu.Unlock()
	t.Cleanup(func() {
		globalMu.Lock()
		global = prev
		globalMu.Unlock()
	})

	fallback := GetGlobalLogger()
	if fallback == nil || GetGlobalLogger() != fallback {
		t.Fatal("expected a stable fallback logger before Init")
	}

	Init(Config{ServiceName: "fileflow", Level: "debug", Format: FormatJSON})
	if GetGlobalLogger() == fallback {
		t.Fatal("expected Init to install a new logger")
	}
	if WithComponent("cli").service != "fileflow" {
		t.Errorf("expected service to carry into component loggers")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Level: "debug"}
	cfg.ApplyDefaults()

	if cfg.Level != "debug" || cfg.Format != FormatConsole || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Level: "info", Format: FormatJSON}, ""},
		{"pretty", Config{Level: "debug", Format: FormatPretty}, ""},
		{"bad level", Config{Level: "loud", Format: FormatJSON}, "logging.level"},
		{"bad format", Config{Level: "info", Format: "xml"}, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
}
