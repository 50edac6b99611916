package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the Supabase data backend over its PostgREST surface.
// The server uses the service-role key; all row scoping is done explicitly
// with user_id filters.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// ErrNoRows is returned when a Single() query matches no row.
var ErrNoRows = errors.New("supabase: no rows returned")

// APIError is a non-2xx response from the data backend.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details string `json:"details"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("supabase: %d %s", e.Status, e.Message)
}

func New(baseURL, key string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// NewWithHTTPClient is used by tests to point the client at a fake backend.
func NewWithHTTPClient(baseURL, key string, hc *http.Client) *Client {
	c := New(baseURL, key)
	if hc != nil {
		c.http = hc
	}
	return c
}

// From starts a query against the given table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, filters: url.Values{}}
}

// Query accumulates PostgREST query parameters. Filter methods mirror the
// operators the handlers need: eq, gte, lte.
type Query struct {
	c       *Client
	table   string
	sel     string
	filters url.Values
	order   string
	limit   int
	single  bool
}

func (q *Query) Select(cols string) *Query {
	q.sel = cols
	return q
}

func (q *Query) Eq(col, val string) *Query {
	q.filters.Add(col, "eq."+val)
	return q
}

func (q *Query) Gte(col, val string) *Query {
	q.filters.Add(col, "gte."+val)
	return q
}

func (q *Query) Lte(col, val string) *Query {
	q.filters.Add(col, "lte."+val)
	return q
}

func (q *Query) Order(col string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = col + "." + dir
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single requests exactly one row; no match yields ErrNoRows.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Get runs a select and decodes the result into dest.
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	return q.do(ctx, http.MethodGet, nil, dest)
}

// Insert posts rows and, when dest is non-nil, decodes the inserted
// representation back into dest.
func (q *Query) Insert(ctx context.Context, body, dest interface{}) error {
	return q.do(ctx, http.MethodPost, body, dest)
}

// Update patches rows matching the accumulated filters.
func (q *Query) Update(ctx context.Context, body, dest interface{}) error {
	return q.do(ctx, http.MethodPatch, body, dest)
}

// Delete removes rows matching the accumulated filters, returning the deleted
// representation when dest is non-nil.
func (q *Query) Delete(ctx context.Context, dest interface{}) error {
	return q.do(ctx, http.MethodDelete, nil, dest)
}

func (q *Query) url() string {
	v := url.Values{}
	if q.sel != "" {
		v.Set("select", q.sel)
	}
	for col, ops := range q.filters {
		for _, op := range ops {
			v.Add(col, op)
		}
	}
	if q.order != "" {
		v.Set("order", q.order)
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	u := q.c.baseURL + "/rest/v1/" + q.table
	if enc := v.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (q *Query) do(ctx context.Context, method string, body, dest interface{}) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, q.url(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", q.c.key)
	req.Header.Set("Authorization", "Bearer "+q.c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	if dest != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := q.c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		// PGRST116: the result contains 0 rows (single-object requests)
		if q.single && (resp.StatusCode == http.StatusNotAcceptable || apiErr.Code == "PGRST116") {
			return ErrNoRows
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
