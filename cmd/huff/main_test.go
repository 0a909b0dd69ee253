package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sigs.k8s.io/yaml"
)

func TestRun_Usage(t *testing.T) {
	type testRow struct {
		name string
		args []string
		code int
	}

	testData := [...]testRow{
		{"no-args", nil, 2},
		{"two-args", []string{"compress", "in"}, 2},
		{"four-args", []string{"compress", "in", "out", "extra"}, 2},
		{"bad-mode", []string{"squash", "in", "out"}, 2},
		{"bad-flag", []string{"-nope", "compress", "in", "out"}, 2},
		{"table-on-decompress", []string{"-table", "decompress", "in", "out"}, 2},
		{"help", []string{"-help"}, 0},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			dir := t.TempDir()
			wd, err := os.Getwd()
			if err != nil {
				t.Fatalf("Getwd failed: %v", err)
			}
			if err := os.Chdir(dir); err != nil {
				t.Fatalf("Chdir failed: %v", err)
			}
			defer os.Chdir(wd)

			var stdout, stderr bytes.Buffer
			if code := run(row.args, &stdout, &stderr); code != row.code {
				t.Errorf("expected exit status %d, got %d (stderr %q)", row.code, code, stderr.String())
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir failed: %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("expected no files to be created, found %d", len(entries))
			}
		})
	}
}

func TestRun_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "original.txt")
	packed := filepath.Join(dir, "packed.huff")
	restored := filepath.Join(dir, "restored.txt")

	input := []byte("she sells sea shells by the sea shore\n")
	if err := os.WriteFile(original, input, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"compress", original, packed}, &stdout, &stderr); code != 0 {
		t.Fatalf("compress: exit status %d (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Compression successful") {
		t.Errorf("compress: unexpected stdout %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"d", packed, restored}, &stdout, &stderr); code != 0 {
		t.Fatalf("decompress: exit status %d (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Decompressed successfully") {
		t.Errorf("decompress: unexpected stdout %q", stdout.String())
	}

	output, err := os.ReadFile(restored)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(input, output) {
		t.Errorf("round trip mismatch:\n\texpect: %q\n\tactual: %q", input, output)
	}
}

func TestRun_Failure(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.huff")
	output := filepath.Join(dir, "output.txt")

	if err := os.WriteFile(corrupt, []byte{0x01, 0x01}, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"decompress", corrupt, output}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit status 1, got %d", code)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("expected no output file after a failure, got %v", err)
	}

	if code := run([]string{"compress", filepath.Join(dir, "missing"), output}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit status 1 for a missing input, got %d", code)
	}
}

func TestRun_Table(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "original.txt")
	packed := filepath.Join(dir, "packed.huff")

	if err := os.WriteFile(original, []byte("aab"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-table", "compress", original, packed}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit status %d (stderr %q)", code, stderr.String())
	}

	report := strings.TrimSuffix(stdout.String(), "Compression successful\n")
	var entries []tableEntry
	if err := yaml.Unmarshal([]byte(report), &entries); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v\n%s", err, report)
	}

	expect := []tableEntry{
		{Symbol: 'a', Char: "a", Count: 2, Size: 1, Code: "1"},
		{Symbol: 'b', Char: "b", Count: 1, Size: 1, Code: "0"},
	}
	if len(entries) != len(expect) {
		t.Fatalf("expected %d entries, got %d:\n%s", len(expect), len(entries), report)
	}
	for i := range expect {
		if entries[i] != expect[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, expect[i], entries[i])
		}
	}
}
