package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// positionsServer serves n synthetic position records through offset
// pagination on any path.
func positionsServer(t *testing.T, n int, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		var page []map[string]any
		for i := offset; i < n && len(page) < limit; i++ {
			page = append(page, map[string]any{
				"asset":       fmt.Sprintf("asset-%d", i),
				"conditionId": fmt.Sprintf("0xcond%d", i),
				"size":        float64(i + 1),
			})
		}
		json.NewEncoder(w).Encode(page)
	}))
}

func TestFetchClosedPositions(t *testing.T) {
	t.Run("max total caps fetched records", func(t *testing.T) {
		tests := []struct {
			name         string
			items        int
			pageSize     int
			maxTotal     int
			wantRecords  int
			wantRequests int32
		}{
			{"uncapped exhausts listing", 7, 3, 0, 7, 3},
			{"cap below total", 100, 25, 10, 10, 1}, // one page of 10
			{"cap above total", 4, 3, 100, 4, 2},
			{"cap equals page size", 50, 25, 25, 25, 1},
			{"cap not page-aligned", 100, 4, 10, 10, 3}, // pages 4+4+2
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var requests atomic.Int32
				server := positionsServer(t, tt.items, &requests)
				defer server.Close()

				records, err := testClient(server).FetchClosedPositions(context.Background(), "0xaaa", PositionsOptions{
					PageSize: tt.pageSize,
					MaxTotal: tt.maxTotal,
				})
				if err != nil {
					t.Fatalf("FetchClosedPositions failed: %v", err)
				}
				if len(records) != tt.wantRecords {
					t.Errorf("records = %d, want %d", len(records), tt.wantRecords)
				}
				if got := requests.Load(); got != tt.wantRequests {
					t.Errorf("requests = %d, want %d", got, tt.wantRequests)
				}
			})
		}
	})

	t.Run("query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("user") != "0xaaa" {
				t.Errorf("user = %q, want 0xaaa", q.Get("user"))
			}
			if q.Get("sortBy") != "realizedpnl" || q.Get("sortDirection") != "DESC" {
				t.Errorf("unexpected sort params: %v", q)
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		if _, err := testClient(server).FetchClosedPositions(context.Background(), "0xaaa", PositionsOptions{PageSize: 10}); err != nil {
			t.Fatalf("FetchClosedPositions failed: %v", err)
		}
	})
}

func TestFetchActivePositions(t *testing.T) {
	t.Run("passes size threshold through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("sizeThreshold") != ".1" {
				t.Errorf("sizeThreshold = %q, want .1", q.Get("sizeThreshold"))
			}
			if q.Get("sortBy") != "CURRENT" {
				t.Errorf("sortBy = %q, want CURRENT", q.Get("sortBy"))
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		if _, err := testClient(server).FetchActivePositions(context.Background(), "0xaaa", PositionsOptions{PageSize: 10}); err != nil {
			t.Fatalf("FetchActivePositions failed: %v", err)
		}
	})

	t.Run("restarts from offset zero", func(t *testing.T) {
		var firstOffsets []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			firstOffsets = append(firstOffsets, r.URL.Query().Get("offset"))
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := testClient(server)
		for i := 0; i < 2; i++ {
			if _, err := c.FetchActivePositions(context.Background(), "0xaaa", PositionsOptions{PageSize: 10}); err != nil {
				t.Fatalf("FetchActivePositions failed: %v", err)
			}
		}
		if len(firstOffsets) != 2 || firstOffsets[0] != "0" || firstOffsets[1] != "0" {
			t.Errorf("offsets = %v, want [0 0]", firstOffsets)
		}
	})

	t.Run("skips non-object list items", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"asset": "a"}, 42, "junk"]`))
		}))
		defer server.Close()

		records, err := testClient(server).FetchActivePositions(context.Background(), "0xaaa", PositionsOptions{PageSize: 10})
		if err != nil {
			t.Fatalf("FetchActivePositions failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("records = %d, want 1", len(records))
		}
	})
}
