// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentStatus is the processing state reported by the conversion service.
// Values the client does not know are kept verbatim and treated as
// non-terminal.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "PENDING"
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusCompleted  DocumentStatus = "COMPLETED"
	StatusFailed     DocumentStatus = "FAILED"
)

// Terminal reports whether no further transitions are expected.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document is a conversion job as returned by the documents API. The client
// never creates or mutates one; it only observes it.
type Document struct {
	// ID is the opaque job identifier assigned at upload.
	ID string `json:"id" yaml:"id"`

	// Status is the current processing state.
	Status DocumentStatus `json:"status" yaml:"status"`

	// DownloadURL locates the converted Markdown once Status is COMPLETED.
	// It is empty (null on the wire) before then.
	DownloadURL string `json:"download_url" yaml:"download_url,omitempty"`

	FileName  string     `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ConversionStatus is the outcome of converting one local file.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)
