// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doctly/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned Markdown
// or an error, depending on configuration.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// setupInput creates a temporary PDF file and returns its path and an
// output config rooted in the same temp dir.
func setupInput(t *testing.T) (string, types.ConversionConfig) {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "2301.07041.pdf")
	if err := os.WriteFile(path, []byte("fake pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, types.ConversionConfig{OutputDir: filepath.Join(tmpDir, "markdown")}
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool // create output MD before running
		overwrite  bool
		wantStatus types.ConversionStatus
		wantLog    string
		wantCalls  int
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: "# Title\n\nContent here."},
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
			wantCalls:  1,
		},
		{
			name:       "skip existing markdown",
			converter:  &fakeConverter{output: "should not be called"},
			preCreate:  true,
			wantStatus: types.ConversionSkipped,
			wantLog:    "skipped:",
		},
		{
			name:       "overwrite existing markdown",
			converter:  &fakeConverter{output: "# New"},
			preCreate:  true,
			overwrite:  true,
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
			wantCalls:  1,
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("processing timeout")},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:  2301.07041.pdf (processing timeout)",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, cfg := setupInput(t)
			cfg.Overwrite = tt.overwrite

			if tt.preCreate {
				if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(cfg.OutputDir, "2301.07041.md"), []byte("existing"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			var log bytes.Buffer
			status := ConvertFile(context.Background(), tt.converter, path, cfg, &log)

			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if !strings.Contains(log.String(), tt.wantLog) {
				t.Errorf("log output %q does not contain %q", log.String(), tt.wantLog)
			}
			if tt.converter.calls != tt.wantCalls {
				t.Errorf("converter calls = %d, want %d", tt.converter.calls, tt.wantCalls)
			}
		})
	}
}

func TestConvertFile_WritesBodyVerbatim(t *testing.T) {
	path, cfg := setupInput(t)
	body := "# Paper Title\n\nSome content.\n"

	var log bytes.Buffer
	if status := ConvertFile(context.Background(), &fakeConverter{output: body}, path, cfg, &log); status != types.ConversionDone {
		t.Fatalf("expected ConversionDone, got %q", status)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "2301.07041.md"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != body {
		t.Errorf("output = %q, want %q", data, body)
	}

	leftovers, _ := filepath.Glob(filepath.Join(cfg.OutputDir, ".convert-*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestConvertFile_Frontmatter(t *testing.T) {
	path, cfg := setupInput(t)
	cfg.Frontmatter = true
	conv := &fakeConverter{output: "# Paper Title\n\nSome content."}

	var log bytes.Buffer
	status := ConvertFile(context.Background(), conv, path, cfg, &log)
	if status != types.ConversionDone {
		t.Fatalf("expected ConversionDone, got %q", status)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "2301.07041.md"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		t.Fatal("output should start with YAML frontmatter delimiter")
	}
	parts := strings.SplitN(strings.TrimPrefix(content, "---\n"), "---\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("frontmatter not terminated: %q", content)
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[0]), &fm); err != nil {
		t.Fatalf("parsing frontmatter: %v", err)
	}
	if fm.Source != "2301.07041.pdf" {
		t.Errorf("source = %q, want %q", fm.Source, "2301.07041.pdf")
	}
	if fm.ConvertedAt == "" {
		t.Error("frontmatter should contain converted_at")
	}
	if parts[1] != "# Paper Title\n\nSome content." {
		t.Errorf("body = %q", parts[1])
	}
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.ConversionConfig{OutputDir: filepath.Join(tmpDir, "markdown")}

	// Create 3 inputs: one will succeed, one will be pre-existing, one will fail.
	var paths []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte("pdf"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	// Pre-create output for "b" to trigger skip.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, "b.md"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := &selectiveConverter{
		outputs: map[string]string{
			paths[0]: "# Paper A",
			paths[1]: "# Paper B",
		},
		errors: map[string]error{
			paths[2]: errors.New("bad pdf"),
		},
	}

	var log bytes.Buffer
	result := ConvertBatch(context.Background(), conv, paths, cfg, &log)

	if result.Converted != 1 {
		t.Errorf("converted = %d, want 1", result.Converted)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("total = %d, want 3", result.Total())
	}

	if !strings.Contains(log.String(), "Batch summary: 1 converted, 1 skipped, 1 failed (total: 3)") {
		t.Errorf("batch output missing summary line: %q", log.String())
	}
}

func TestConvertBatch_CancelledContext(t *testing.T) {
	path, cfg := setupInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{output: "# never"}
	var log bytes.Buffer
	result := ConvertBatch(ctx, conv, []string{path, path}, cfg, &log)

	if result.Failed != 2 {
		t.Errorf("failed = %d, want 2", result.Failed)
	}
	if conv.calls != 0 {
		t.Errorf("converter called %d times after cancellation", conv.calls)
	}
	if !strings.Contains(log.String(), "aborted:") {
		t.Errorf("log output %q should report abort", log.String())
	}
}

func TestOutputPath(t *testing.T) {
	cfg := types.ConversionConfig{OutputDir: "out"}
	tests := []struct {
		in, want string
	}{
		{"papers/raw/2301.07041.pdf", filepath.Join("out", "2301.07041.md")},
		{"report.final.docx", filepath.Join("out", "report.final.md")},
		{"noext", filepath.Join("out", "noext.md")},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, cfg); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// selectiveConverter returns different results per file path.
type selectiveConverter struct {
	outputs map[string]string
	errors  map[string]error
}

func (s *selectiveConverter) Convert(_ context.Context, path string) (string, error) {
	if err, ok := s.errors[path]; ok {
		return "", err
	}
	if out, ok := s.outputs[path]; ok {
		return out, nil
	}
	return "", errors.New("unexpected path: " + path)
}
