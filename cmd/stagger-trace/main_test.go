package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/stagger"
)

func TestRunText(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"testdata/cascade.yaml"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), stdout.String())
	}
	wantDelay := []string{"0s", "100ms", "400ms", "700ms", "800ms", "0s", "0s"}
	for i, w := range wantDelay {
		if !strings.HasSuffix(lines[i], "delay="+w) {
			t.Errorf("line %d = %q, want delay=%s", i, lines[i], w)
		}
	}
}

func TestRunJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-format", "json", "testdata/cascade.yaml"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), `"name":"c"`) {
		t.Errorf("output missing node c:\n%s", stdout.String())
	}
}

func TestRunCBORFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "trace.cbor")
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-format", "cbor", "-o", out, "testdata/cascade.yaml"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty when -o is set")
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	events, err := stagger.ReadCBOR(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 7 {
		t.Errorf("events = %d, want 7", len(events))
	}
}

func TestRunTextFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "trace.txt")
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-o", out, "testdata/cascade.yaml"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 7 {
		t.Errorf("lines = %d, want 7", n)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"unknown format", []string{"-format", "xml", "testdata/cascade.yaml"}},
		{"missing file", []string{"testdata/missing.yaml"}},
		{"bad flag", []string{"-nope"}},
		{"bad output", []string{"-o", filepath.Join(t.TempDir(), "missing", "out.txt"), "testdata/cascade.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err == nil {
				t.Error("expected error")
			}
		})
	}
}
