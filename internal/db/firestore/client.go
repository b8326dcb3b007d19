// Package firestore is a small REST client for the document database: structured
// queries, reads, masked updates, writes and deletes. Field values go through the
// wire package.
//
// Reads and writes follow different failure policies. Query never fails: any
// transport error or non-success status is logged and an empty result is
// returned, so list views still render. Get, Update, Set, Create and Delete
// return an error for every non-success status.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/metrics"
)

const (
	// DefaultBaseURL is the public REST endpoint.
	DefaultBaseURL = "https://firestore.googleapis.com/v1"
	// DefaultDatabaseID is the database every project starts with.
	DefaultDatabaseID = "(default)"

	apiKeyHeader = "X-Goog-Api-Key"
	maxErrorBody = 4096
	healthDocID  = "_health"
)

// Config holds the client settings.
type Config struct {
	ProjectID  string
	DatabaseID string
	BaseURL    string
	// APIKey is sent as X-Goog-Api-Key when set.
	APIKey string
	// HTTPClient defaults to a client without timeout. Pass an OAuth2 client to
	// authenticate with a service account.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client issues document API calls. Safe for concurrent use.
type Client struct {
	http    *http.Client
	root    string // {base}/projects/{p}/databases/{db}/documents
	apiKey  string
	project string
	logger  *zap.Logger
}

// Document is one stored document with its decoded fields.
type Document struct {
	ID         string
	Name       string
	Fields     wire.Record
	CreateTime string
	UpdateTime string
}

// Flatten returns a copy of the fields with the id stored under idKey.
func (d Document) Flatten(idKey string) wire.Record {
	out := d.Fields.Clone()
	out[idKey] = d.ID
	return out
}

// rawDocument is the REST document resource.
type rawDocument struct {
	Name       string      `json:"name,omitempty"`
	Fields     wire.Fields `json:"fields,omitempty"`
	CreateTime string      `json:"createTime,omitempty"`
	UpdateTime string      `json:"updateTime,omitempty"`
}

// runQueryItem is one element of the runQuery response stream. Items without a
// document carry progress information only.
type runQueryItem struct {
	Document *rawDocument `json:"document,omitempty"`
	ReadTime string       `json:"readTime,omitempty"`
}

// NewClient creates a client for one project/database.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore: project id is required")
	}
	if cfg.DatabaseID == "" {
		cfg.DatabaseID = DefaultDatabaseID
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	root := fmt.Sprintf("%s/projects/%s/databases/%s/documents",
		strings.TrimRight(cfg.BaseURL, "/"), url.PathEscape(cfg.ProjectID), cfg.DatabaseID)

	return &Client{
		http:    cfg.HTTPClient,
		root:    root,
		apiKey:  cfg.APIKey,
		project: cfg.ProjectID,
		logger:  cfg.Logger,
	}, nil
}

// Query runs a structured query. It never returns an error: failures are logged
// and produce an empty, non-nil slice.
func (c *Client) Query(ctx context.Context, q Query) []Document {
	docs := []Document{}

	body, err := json.Marshal(BuildRunQuery(q))
	if err != nil {
		c.logger.Error("firestore query encode failed", zap.String("collection", q.Collection), zap.Error(err))
		return docs
	}

	resp, err := c.do(ctx, OpRunQuery, http.MethodPost, c.root+":runQuery", nil, body)
	if err != nil {
		c.logger.Error("firestore query failed", zap.String("collection", q.Collection), zap.Error(err))
		return docs
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		c.logger.Error("firestore query error response",
			zap.String("collection", q.Collection),
			zap.Int("status", resp.StatusCode),
			zap.String("body", readErrorBody(resp.Body)),
		)
		return docs
	}

	var items []runQueryItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		c.logger.Error("firestore query decode failed", zap.String("collection", q.Collection), zap.Error(err))
		return docs
	}

	for _, it := range items {
		if it.Document == nil {
			continue
		}
		docs = append(docs, toDocument(it.Document))
	}
	return docs
}

// FindOne returns the first document whose field equals value.
func (c *Client) FindOne(ctx context.Context, collection, field, value string) (Document, bool) {
	docs := c.Query(ctx, Query{
		Collection: collection,
		Filters:    []Filter{Eq(field, value)},
		Limit:      1,
	})
	if len(docs) == 0 {
		return Document{}, false
	}
	return docs[0], true
}

// Get reads one document. A missing document yields an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, collection, id string) (Document, error) {
	resp, err := c.do(ctx, OpGet, http.MethodGet, c.docURL(collection, id), nil, nil)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return Document{}, c.statusError(OpGet, collection, id, resp)
	}

	var raw rawDocument
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("firestore get %s/%s: decode: %w", collection, id, err)
	}
	doc := toDocument(&raw)
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

// Update writes the given fields only. Every key of rec is listed in the update
// mask; keys whose value is nil are masked but not sent, which removes them from
// the stored document. An empty rec, or a non-nil value the encoder does not
// produce, is rejected before any request is made.
func (c *Client) Update(ctx context.Context, collection, id string, rec wire.Record) error {
	if len(rec) == 0 {
		return fmt.Errorf("firestore %s %s/%s: %w", OpPatch, collection, id, ErrEmptyUpdate)
	}
	keys := make([]string, 0, len(rec))
	for k, v := range rec {
		if v != nil {
			if _, ok := wire.EncodeValue(v); !ok {
				return fmt.Errorf("firestore %s %s/%s: field %q (%T): %w", OpPatch, collection, id, k, v, ErrUnencodable)
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := url.Values{}
	for _, k := range keys {
		params.Add("updateMask.fieldPaths", FieldPath(k))
	}
	return c.patch(ctx, OpPatch, collection, id, params, rec)
}

// Set creates or replaces a whole document.
func (c *Client) Set(ctx context.Context, collection, id string, rec wire.Record) error {
	return c.patch(ctx, OpSet, collection, id, nil, rec)
}

// Create stores rec under a new random id and returns that id.
func (c *Client) Create(ctx context.Context, collection string, rec wire.Record) (string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(rawDocument{Fields: wire.EncodeFields(rec)})
	if err != nil {
		return "", fmt.Errorf("firestore create %s: encode: %w", collection, err)
	}

	params := url.Values{"documentId": {id}}
	resp, err := c.do(ctx, OpCreate, http.MethodPost, c.root+"/"+url.PathEscape(collection), params, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", c.statusError(OpCreate, collection, id, resp)
	}
	return id, nil
}

// Delete removes a document. Deleting a missing document succeeds.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	resp, err := c.do(ctx, OpDelete, http.MethodDelete, c.docURL(collection, id), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if !isSuccess(resp.StatusCode) {
		return c.statusError(OpDelete, collection, id, resp)
	}
	return nil
}

// HealthCheck verifies the API answers for this project. A 404 for the probe
// document still counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Get(ctx, healthDocID, "ping")
	if err == nil || isNotFound(err) {
		return nil
	}
	return fmt.Errorf("firestore health check: %w", err)
}

func (c *Client) patch(
	ctx context.Context, op, collection, id string, params url.Values, rec wire.Record,
) error {
	body, err := json.Marshal(rawDocument{Fields: wire.EncodeFields(rec)})
	if err != nil {
		return fmt.Errorf("firestore %s %s/%s: encode: %w", op, collection, id, err)
	}

	resp, err := c.do(ctx, op, http.MethodPatch, c.docURL(collection, id), params, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return c.statusError(op, collection, id, resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(
	ctx context.Context, op, method, target string, params url.Values, body []byte,
) (*http.Response, error) {
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("firestore %s: new request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.FirestoreRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FirestoreRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("firestore %s: %w", op, err)
	}
	metrics.FirestoreRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func (c *Client) docURL(collection, id string) string {
	return c.root + "/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

func (c *Client) statusError(op, collection, id string, resp *http.Response) error {
	body := readErrorBody(resp.Body)
	if resp.StatusCode != http.StatusNotFound {
		c.logger.Error("firestore error response",
			zap.String("op", op),
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Int("status", resp.StatusCode),
			zap.String("body", body),
		)
	}
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: body}
}

func toDocument(raw *rawDocument) Document {
	return Document{
		ID:         wire.DocumentID(raw.Name),
		Name:       raw.Name,
		Fields:     wire.DecodeFields(raw.Fields),
		CreateTime: raw.CreateTime,
		UpdateTime: raw.UpdateTime,
	}
}

var simpleFieldPath = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

// FieldPath quotes a field name for use in an update mask. Names outside
// [A-Za-z_][A-Za-z_0-9]* are wrapped in backticks.
func FieldPath(name string) string {
	if simpleFieldPath.MatchString(name) {
		return name
	}
	escaped := strings.ReplaceAll(name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "`", "\\`")
	return "`" + escaped + "`"
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func isNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusNotFound
}

func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}
