// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs a Converter over local files and writes the Markdown
// results into an output directory.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doctly/pkg/types"
)

// Converter transforms a document on disk into Markdown text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// frontmatter is the YAML header prepended to converted output.
type frontmatter struct {
	Source      string `yaml:"source"`
	ConvertedAt string `yaml:"converted_at"`
}

// OutputPath returns where the Markdown for path is written.
func OutputPath(path string, cfg types.ConversionConfig) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(cfg.OutputDir, base+".md")
}

// ConvertFile converts one file and writes the result to the output
// directory. An existing output is left alone unless cfg.Overwrite is set.
func ConvertFile(ctx context.Context, c Converter, path string, cfg types.ConversionConfig, w io.Writer) types.ConversionStatus {
	name := filepath.Base(path)
	mdPath := OutputPath(path, cfg)

	if !cfg.Overwrite {
		if _, err := os.Stat(mdPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			return types.ConversionSkipped
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	md, err := c.Convert(ctx, path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	if cfg.Frontmatter {
		md, err = addFrontmatter(path, md)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			return types.ConversionFailed
		}
	}

	if err := writeAtomic(mdPath, []byte(md)); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", name, mdPath)
	return types.ConversionDone
}

// ConvertBatch converts each path in turn, printing per-file status to w and
// returning a summary. Failures do not stop the batch; a cancelled context
// does, and the remaining files count as failed.
func ConvertBatch(ctx context.Context, c Converter, paths []string, cfg types.ConversionConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "aborted: %d file(s) not processed (%v)\n", len(paths)-i, err)
			result.Failed += len(paths) - i
			break
		}
		switch ConvertFile(ctx, c, p, cfg, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func addFrontmatter(path, body string) (string, error) {
	fm := frontmatter{
		Source:      filepath.Base(path),
		ConvertedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}

// writeAtomic writes data to a temporary file beside destPath and renames it
// into place.
func writeAtomic(destPath string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".convert-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
