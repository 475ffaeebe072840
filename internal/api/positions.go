package api

import (
	"context"
	"net/url"
	"strconv"
)

// FetchClosedPositions fetches all closed positions for a user from
// /closed-positions, bounded by opts.MaxTotal when set.
func (c *Client) FetchClosedPositions(ctx context.Context, userID string, opts PositionsOptions) ([]RawRecord, error) {
	query := url.Values{}
	query.Set("user", userID)
	query.Set("sortBy", "realizedpnl")
	query.Set("sortDirection", "DESC")

	return c.fetchPaged(ctx, "/closed-positions", query, opts)
}

// FetchActivePositions fetches all open positions for a user from
// /positions. The size threshold filters dust positions server-side.
func (c *Client) FetchActivePositions(ctx context.Context, userID string, opts PositionsOptions) ([]RawRecord, error) {
	query := url.Values{}
	query.Set("user", userID)
	query.Set("sortBy", "CURRENT")
	query.Set("sortDirection", "DESC")
	query.Set("sizeThreshold", ".1")

	return c.fetchPaged(ctx, "/positions", query, opts)
}

// fetchPaged walks an offset-paginated listing until a short page, an
// empty or non-list response, or the MaxTotal cap. Each invocation starts
// from offset 0.
func (c *Client) fetchPaged(ctx context.Context, path string, base url.Values, opts PositionsOptions) ([]RawRecord, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	var results []RawRecord
	offset := 0

	for {
		if opts.MaxTotal > 0 && len(results) >= opts.MaxTotal {
			break
		}

		limit := pageSize
		if opts.MaxTotal > 0 {
			// Cap the page so the cumulative count never exceeds MaxTotal.
			if remaining := opts.MaxTotal - len(results); remaining < limit {
				limit = remaining
			}
			if limit < 1 {
				limit = 1
			}
		}

		query := url.Values{}
		for k, v := range base {
			query[k] = v
		}
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))

		data, err := c.getJSON(ctx, path, query)
		if err != nil {
			return nil, err
		}

		page, ok := asRecords(data)
		if !ok || len(page) == 0 {
			break
		}

		results = append(results, page...)

		if len(page) < limit {
			break
		}
		offset += limit
	}

	return results, nil
}
