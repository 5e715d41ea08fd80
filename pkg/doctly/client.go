// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doctly is a client for the Doctly document conversion service.
//
// A conversion is three remote calls wrapped in one synchronous method:
// the file is uploaded, the resulting document is polled until it reaches
// a terminal status, and the converted Markdown is downloaded:
//
//	c, err := doctly.New(types.ClientConfig{APIKey: key})
//	if err != nil {
//		return err
//	}
//	md, err := c.ToMarkdown(ctx, "paper.pdf")
//
// Every failure is a *Error whose Kind names the failing step. Nothing is
// retried; callers decide whether to run the whole conversion again.
//
// The conversion timeout is checked once per poll iteration, before each
// sleep. A slow status request is never interrupted by it, so the total
// wait can exceed the timeout by up to one poll interval plus one request.
package doctly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/doctly/internal/httputil"
	"github.com/pdiddy/doctly/pkg/types"
)

const (
	documentsPath = "/api/v1/documents/"
	uploadField   = "files"
)

// now and sleep are the loop's only view of time. Tests replace them to
// drive the poll loop without real delays.
var (
	now   = time.Now
	sleep = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
)

// Client talks to the documents API. It holds configuration only and is safe
// for concurrent use.
type Client struct {
	cfg  types.ClientConfig
	http *http.Client
	log  logrus.FieldLogger
}

// New validates cfg, fills in defaults, and returns a Client.
func New(cfg types.ClientConfig, opts ...ClientOption) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := types.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration, defaults included.
func (c *Client) Config() types.ClientConfig { return c.cfg }

// ToMarkdown uploads the file at filePath, waits for the service to finish
// converting it, and returns the downloaded Markdown exactly as served.
func (c *Client) ToMarkdown(ctx context.Context, filePath string, opts ...Option) (string, error) {
	o := callOptions{
		pollInterval: c.cfg.PollInterval,
		timeout:      c.cfg.ConversionTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	log := c.log.WithFields(logrus.Fields{
		"conversion_id": uuid.NewString(),
		"file":          filePath,
	})

	doc, err := c.upload(ctx, filePath, log)
	if err != nil {
		return "", err
	}

	doc, err = c.wait(ctx, doc, o.pollInterval, o.timeout, log)
	if err != nil {
		return "", err
	}

	return c.download(ctx, doc.DownloadURL, log)
}

// Upload sends filePath to the service and returns the first document record
// of the response.
func (c *Client) Upload(ctx context.Context, filePath string) (*types.Document, error) {
	return c.upload(ctx, filePath, c.log)
}

// Status fetches the current state of document id.
func (c *Client) Status(ctx context.Context, id string) (*types.Document, error) {
	return c.status(ctx, id, c.log)
}

// Wait polls doc until it completes, fails, or the timeout elapses. The
// returned document is COMPLETED and carries a download URL.
func (c *Client) Wait(ctx context.Context, doc *types.Document, pollInterval, timeout time.Duration) (*types.Document, error) {
	return c.wait(ctx, doc, pollInterval, timeout, c.log)
}

// Download fetches the converted Markdown from a download URL. The request
// is sent without credentials.
func (c *Client) Download(ctx context.Context, downloadURL string) (string, error) {
	return c.download(ctx, downloadURL, c.log)
}

func (c *Client) upload(ctx context.Context, filePath string, log logrus.FieldLogger) (*types.Document, error) {
	req, err := httputil.NewMultipartRequest(ctx, http.MethodPost, c.documentsURL(), uploadField, filePath)
	if err != nil {
		return nil, newError(KindUpload, fmt.Sprintf("Error uploading file: %v", err), err)
	}
	c.authorize(req)

	log.Debug("uploading document")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError(KindUpload, fmt.Sprintf("Error uploading file: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindUpload, "Error uploading file: "+httputil.ErrorBody(resp.Body), nil)
	}

	var docs []types.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, newError(KindUpload, fmt.Sprintf("Error uploading file: parsing response: %v", err), err)
	}
	if len(docs) == 0 {
		return nil, newError(KindEmptyResponse, "No document returned from upload.", nil)
	}

	doc := docs[0]
	if doc.ID == "" {
		return nil, newError(KindMissingID, "No document ID returned from upload.", nil)
	}

	log.WithFields(logrus.Fields{"document_id": doc.ID, "status": doc.Status}).Debug("document uploaded")
	return &doc, nil
}

func (c *Client) status(ctx context.Context, id string, log logrus.FieldLogger) (*types.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentsURL()+url.PathEscape(id), nil)
	if err != nil {
		return nil, newError(KindStatusCheck, fmt.Sprintf("Error checking status: %v", err), err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError(KindStatusCheck, fmt.Sprintf("Error checking status: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindStatusCheck, "Error checking status: "+httputil.ErrorBody(resp.Body), nil)
	}

	var doc types.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, newError(KindStatusCheck, fmt.Sprintf("Error checking status: parsing response: %v", err), err)
	}

	log.WithFields(logrus.Fields{"document_id": id, "status": doc.Status}).Debug("status checked")
	return &doc, nil
}

func (c *Client) wait(ctx context.Context, doc *types.Document, pollInterval, timeout time.Duration, log logrus.FieldLogger) (*types.Document, error) {
	id := doc.ID
	start := now()

	for attempt := 1; doc.Status != types.StatusCompleted; attempt++ {
		if doc.Status == types.StatusFailed {
			return nil, newError(KindProcessingFailed,
				fmt.Sprintf("Document processing failed with status: %s", doc.Status), nil)
		}

		if now().Sub(start) > timeout {
			log.WithField("document_id", id).Debug("poll deadline exceeded")
			return nil, newError(KindTimeout, "Processing timeout.", nil)
		}

		if err := sleep(ctx, pollInterval); err != nil {
			return nil, err
		}

		log.WithFields(logrus.Fields{"document_id": id, "attempt": attempt}).Debug("polling status")
		next, err := c.status(ctx, id, log)
		if err != nil {
			return nil, err
		}
		doc = next
	}

	if doc.DownloadURL == "" {
		return nil, newError(KindMissingDownloadURL, "No download URL returned from the server.", nil)
	}
	return doc, nil
}

func (c *Client) download(ctx context.Context, downloadURL string, log logrus.FieldLogger) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", newError(KindDownload, fmt.Sprintf("Error downloading Markdown file: %v", err), err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	log.WithField("url", downloadURL).Debug("downloading markdown")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", newError(KindDownload, fmt.Sprintf("Error downloading Markdown file: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", newError(KindDownload, "Error downloading Markdown file: "+httputil.ErrorBody(resp.Body), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindDownload, fmt.Sprintf("Error downloading Markdown file: %v", err), err)
	}
	return string(data), nil
}

func (c *Client) documentsURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + documentsPath
}

func (c *Client) authorize(req *http.Request) {
	httputil.SetBearer(req, c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
}
