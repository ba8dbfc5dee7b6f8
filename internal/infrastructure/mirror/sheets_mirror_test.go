package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"platecheck/internal/bootstrap/config"
	"platecheck/internal/ports"
)

func TestAppendRequiresConfiguration(t *testing.T) {
	cases := []config.SheetsConfig{
		{},
		{Spreadsheet: "abc123"},
		{CredentialsFile: "creds.json"},
	}

	for _, cfg := range cases {
		m := NewSheetsMirror(cfg)
		err := m.Append(context.Background(), ports.MirrorEntry{Branch: "חיפה"})
		if !errors.Is(err, ports.ErrMirrorNotConfigured) {
			t.Fatalf("Append(%+v) error = %v, want ErrMirrorNotConfigured", cfg, err)
		}
	}
}

func TestSpreadsheetIDFromIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1AbCdEf", "1AbCdEf"},
		{" 1AbCdEf ", "1AbCdEf"},
		{"https://docs.google.com/spreadsheets/d/1AbCdEf/edit#gid=0", "1AbCdEf"},
		{"https://docs.google.com/spreadsheets/d/1AbCdEf?usp=sharing", "1AbCdEf"},
		{"https://docs.google.com/spreadsheets/d/1AbCdEf", "1AbCdEf"},
	}

	for _, tc := range cases {
		if got := spreadsheetIDFromIdentifier(tc.in); got != tc.want {
			t.Fatalf("spreadsheetIDFromIdentifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePrivateKey(t *testing.T) {
	raw := []byte(`{"type":"service_account","private_key":"-----BEGIN\\nKEY\\nEND-----"}`)

	fixed, err := normalizePrivateKey(raw)
	if err != nil {
		t.Fatalf("normalizePrivateKey() error = %v", err)
	}

	var creds map[string]any
	if err := json.Unmarshal(fixed, &creds); err != nil {
		t.Fatalf("normalized credentials not JSON: %v", err)
	}
	pk := creds["private_key"].(string)
	if strings.Contains(pk, `\n`) || !strings.Contains(pk, "\n") {
		t.Fatalf("normalizePrivateKey() private_key = %q", pk)
	}
}

func TestNormalizePrivateKeyLeavesCleanKeysAlone(t *testing.T) {
	raw := []byte(`{"type":"service_account","private_key":"-----BEGIN\nKEY\nEND-----"}`)

	fixed, err := normalizePrivateKey(raw)
	if err != nil {
		t.Fatalf("normalizePrivateKey() error = %v", err)
	}
	if string(fixed) != string(raw) {
		t.Fatalf("normalizePrivateKey() rewrote already-clean credentials")
	}
}

func TestIsMissingWorksheet(t *testing.T) {
	if isMissingWorksheet(nil) {
		t.Fatalf("isMissingWorksheet(nil) = true")
	}
	if isMissingWorksheet(errors.New("network down")) {
		t.Fatalf("isMissingWorksheet() matched a non-API error")
	}
}
