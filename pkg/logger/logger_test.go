package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf})

	log.Info().Str("key", "value").Msg("hello")
	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected structured field in output, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected message in output, got %s", buf.String())
	}

	// Get returns the same instance after Init.
	got := Get()
	got.Info().Msg("again")
	if !strings.Contains(buf.String(), "again") {
		t.Errorf("Get must return the initialised logger, got %s", buf.String())
	}
}

func TestInitOnlyFirstCallWins(t *testing.T) {
	Reset()
	defer Reset()

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	log := Init(Options{Output: &second})

	log.Info().Msg("routed")
	if second.Len() != 0 {
		t.Error("second Init must have no effect")
	}
	if !strings.Contains(first.String(), "routed") {
		t.Errorf("expected output on the first writer, got %q", first.String())
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	defer Reset()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"WARN":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"bogus":   "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
