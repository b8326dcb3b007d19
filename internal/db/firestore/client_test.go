package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterBackendMetrics()
	os.Exit(m.Run())
}

// recorded is one request seen by the fake document API.
type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	body     string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, resp := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (f *fakeAPI) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, api *fakeAPI, apiKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		ProjectID: "demo",
		BaseURL:   srv.URL,
		APIKey:    apiKey,
	})
	require.NoError(t, err)
	return c
}

const docPrefix = "/projects/demo/databases/(default)/documents"

func TestNewClient_RequiresProject(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestBuildRunQuery_NoFilters(t *testing.T) {
	got := BuildRunQuery(Query{Collection: "sheep"})
	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"structuredQuery":{"from":[{"collectionId":"sheep"}]}}`, string(raw))
}

func TestBuildRunQuery_SingleFilter(t *testing.T) {
	got := BuildRunQuery(Query{
		Collection: "users",
		Filters:    []Filter{Eq("email", "a@b.dz")},
		Limit:      1,
	})
	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"structuredQuery":{
		"from":[{"collectionId":"users"}],
		"where":{"fieldFilter":{"field":{"fieldPath":"email"},"op":"EQUAL","value":{"stringValue":"a@b.dz"}}},
		"limit":1
	}}`, string(raw))
}

func TestBuildRunQuery_CompositeAnd(t *testing.T) {
	got := BuildRunQuery(Query{
		Collection: "sheep",
		Filters: []Filter{
			Eq("status", "accepted"),
			{Field: "city", Op: OpNotEqual, Value: "Oran"},
		},
	})

	where := got.StructuredQuery.Where
	require.NotNil(t, where)
	assert.Nil(t, where.FieldFilter)
	require.NotNil(t, where.CompositeFilter)
	assert.Equal(t, "AND", where.CompositeFilter.Op)
	require.Len(t, where.CompositeFilter.Filters, 2)

	first := where.CompositeFilter.Filters[0].FieldFilter
	assert.Equal(t, "status", first.Field.FieldPath)
	assert.Equal(t, OpEqual, first.Op)
	assert.Equal(t, "accepted", *first.Value.StringValue)

	second := where.CompositeFilter.Filters[1].FieldFilter
	assert.Equal(t, "city", second.Field.FieldPath)
	assert.Equal(t, OpNotEqual, second.Op)
	assert.Equal(t, "Oran", *second.Value.StringValue)
}

func TestBuildRunQuery_EmptyOpDefaultsToEqual(t *testing.T) {
	got := BuildRunQuery(Query{Collection: "c", Filters: []Filter{{Field: "f", Value: "v"}}})
	assert.Equal(t, OpEqual, got.StructuredQuery.Where.FieldFilter.Op)
}

func TestQuery_DecodesDocumentsAndSkipsProgressEntries(t *testing.T) {
	api := &fakeAPI{body: `[
		{"readTime":"2024-01-01T00:00:00Z"},
		{"document":{
			"name":"projects/demo/databases/(default)/documents/sheep/s1",
			"fields":{"price":{"integerValue":"45000"},"status":{"stringValue":"accepted"}},
			"createTime":"2024-01-01T00:00:00Z"
		}},
		{"document":{"name":"projects/demo/databases/(default)/documents/sheep/s2"}}
	]`}
	c := newTestClient(t, api, "key-1")

	docs := c.Query(context.Background(), Query{Collection: "sheep", Filters: []Filter{Eq("status", "accepted")}})

	require.Len(t, docs, 2)
	assert.Equal(t, "s1", docs[0].ID)
	assert.Equal(t, int64(45000), docs[0].Fields["price"])
	assert.Equal(t, "accepted", docs[0].Fields.String("status"))
	assert.Equal(t, "s2", docs[1].ID)
	assert.NotNil(t, docs[1].Fields)

	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, docPrefix+":runQuery", req.Path)
	assert.Equal(t, "key-1", req.Header.Get("X-Goog-Api-Key"))

	var body RunQueryRequest
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "sheep", body.StructuredQuery.From[0].CollectionID)
}

func TestQuery_ServerErrorYieldsEmptySlice(t *testing.T) {
	api := &fakeAPI{status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`}
	c := newTestClient(t, api, "")

	docs := c.Query(context.Background(), Query{Collection: "sheep"})

	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestQuery_MalformedBodyYieldsEmptySlice(t *testing.T) {
	api := &fakeAPI{body: `not json`}
	c := newTestClient(t, api, "")

	docs := c.Query(context.Background(), Query{Collection: "sheep"})
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestQuery_UnreachableYieldsEmptySlice(t *testing.T) {
	c, err := NewClient(Config{ProjectID: "demo", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	docs := c.Query(context.Background(), Query{Collection: "sheep"})
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestQuery_NoAPIKeyHeaderWhenUnset(t *testing.T) {
	api := &fakeAPI{body: `[]`}
	c := newTestClient(t, api, "")

	c.Query(context.Background(), Query{Collection: "sheep"})
	assert.Empty(t, api.last(t).Header.Get("X-Goog-Api-Key"))
}

func TestFindOne(t *testing.T) {
	api := &fakeAPI{body: `[{"document":{
		"name":"projects/demo/databases/(default)/documents/users/u1",
		"fields":{"email":{"stringValue":"a@b.dz"}}
	}}]`}
	c := newTestClient(t, api, "")

	doc, ok := c.FindOne(context.Background(), "users", "email", "a@b.dz")
	require.True(t, ok)
	assert.Equal(t, "u1", doc.ID)

	var body RunQueryRequest
	require.NoError(t, json.Unmarshal(api.last(t).Body, &body))
	assert.Equal(t, 1, body.StructuredQuery.Limit)
}

func TestFindOne_NoMatch(t *testing.T) {
	c := newTestClient(t, &fakeAPI{body: `[{"readTime":"x"}]`}, "")
	_, ok := c.FindOne(context.Background(), "users", "email", "none@b.dz")
	assert.False(t, ok)
}

func TestGet(t *testing.T) {
	api := &fakeAPI{body: `{
		"name":"projects/demo/databases/(default)/documents/sheep/s9",
		"fields":{"approved":{"booleanValue":true}}
	}`}
	c := newTestClient(t, api, "")

	doc, err := c.Get(context.Background(), "sheep", "s9")
	require.NoError(t, err)
	assert.Equal(t, "s9", doc.ID)
	assert.True(t, doc.Fields.Bool("approved"))

	req := api.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, docPrefix+"/sheep/s9", req.Path)
}

func TestGet_NotFound(t *testing.T) {
	api := &fakeAPI{status: http.StatusNotFound, body: `{"error":{"code":404}}`}
	c := newTestClient(t, api, "")

	_, err := c.Get(context.Background(), "sheep", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_ServerError(t *testing.T) {
	api := &fakeAPI{status: http.StatusForbidden, body: `denied`}
	c := newTestClient(t, api, "")

	_, err := c.Get(context.Background(), "sheep", "s1")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "denied", se.Body)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUpdate_MaskListsEveryKeyIncludingNil(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	c := newTestClient(t, api, "")

	err := c.Update(context.Background(), "users", "u1", wire.Record{
		"emailVerified":          true,
		"emailVerificationToken": nil,
		"display name":           "x",
	})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, docPrefix+"/users/u1", req.Path)

	mask := append([]string(nil), req.Query["updateMask.fieldPaths"]...)
	sort.Strings(mask)
	assert.Equal(t, []string{"`display name`", "emailVerificationToken", "emailVerified"}, mask)

	var body struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Len(t, body.Fields, 2)
	assert.NotContains(t, body.Fields, "emailVerificationToken")
}

func TestUpdate_BadRequestFailsLoud(t *testing.T) {
	api := &fakeAPI{status: http.StatusBadRequest, body: `{"error":{"message":"bad mask"}}`}
	c := newTestClient(t, api, "")

	err := c.Update(context.Background(), "users", "u1", wire.Record{"x": 1})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, OpPatch, se.Op)
	assert.Contains(t, err.Error(), "400")
}

func TestUpdate_EmptyRecordRejected(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	c := newTestClient(t, api, "")

	for _, rec := range []wire.Record{nil, {}} {
		err := c.Update(context.Background(), "users", "u1", rec)
		require.ErrorIs(t, err, ErrEmptyUpdate)
	}
	assert.Empty(t, api.requests, "no request may be sent for an empty update")
}

func TestUpdate_UnencodableValueRejected(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	c := newTestClient(t, api, "")

	tests := []struct {
		name  string
		value any
	}{
		{"map", map[string]any{"city": "Oran"}},
		{"struct", struct{ City string }{"Oran"}},
		{"time", time.UnixMilli(1_700_000_000_000)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Update(context.Background(), "users", "u1", wire.Record{
				"fullName": "Amine",
				"address":  tc.value,
			})
			require.ErrorIs(t, err, ErrUnencodable)
			assert.Contains(t, err.Error(), "address")
		})
	}
	assert.Empty(t, api.requests, "a field must never be masked without being sent")
}

func TestSet_HasNoMask(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	c := newTestClient(t, api, "")

	require.NoError(t, c.Set(context.Background(), "password_resets", "u1", wire.Record{"code": "123456"}))

	req := api.last(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Empty(t, req.Query["updateMask.fieldPaths"])
	assert.Contains(t, string(req.Body), `"code":{"stringValue":"123456"}`)
}

func TestCreate_GeneratesDocumentID(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	c := newTestClient(t, api, "")

	id, err := c.Create(context.Background(), "pending_registrations", wire.Record{"email": "a@b.dz"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, docPrefix+"/pending_registrations", req.Path)
	assert.Equal(t, []string{id}, req.Query["documentId"])
}

func TestCreate_Conflict(t *testing.T) {
	api := &fakeAPI{status: http.StatusConflict}
	c := newTestClient(t, api, "")

	_, err := c.Create(context.Background(), "pending_registrations", wire.Record{"email": "a@b.dz"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.StatusCode)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"missing is success", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{status: tc.status, body: `{}`}
			c := newTestClient(t, api, "")

			err := c.Delete(context.Background(), "users", "u1")
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, http.MethodDelete, api.last(t).Method)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"document exists", http.StatusOK, false},
		{"document missing", http.StatusNotFound, false},
		{"unauthorized", http.StatusUnauthorized, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, &fakeAPI{status: tc.status, body: `{}`}, "")
			err := c.HealthCheck(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDocumentFlatten(t *testing.T) {
	d := Document{ID: "s1", Fields: wire.Record{"price": int64(10)}}
	flat := d.Flatten("id")

	assert.Equal(t, wire.Record{"id": "s1", "price": int64(10)}, flat)
	assert.NotContains(t, d.Fields, "id")
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "email", FieldPath("email"))
	assert.Equal(t, "_x1", FieldPath("_x1"))
	assert.Equal(t, "`a.b`", FieldPath("a.b"))
	assert.Equal(t, "`1st`", FieldPath("1st"))
	assert.True(t, strings.HasPrefix(FieldPath("we`ird"), "`"))
}
