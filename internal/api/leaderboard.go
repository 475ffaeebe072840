package api

import (
	"context"
	"net/url"
	"strconv"
)

// FetchLeaderboard fetches ranked users from /v1/leaderboard, paginating by
// offset until opts.Limit entries are collected or the listing is exhausted.
// Entries without a resolvable wallet address are skipped.
func (c *Client) FetchLeaderboard(ctx context.Context, opts LeaderboardOptions) ([]LeaderboardEntry, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	var entries []LeaderboardEntry
	offset := 0

	for len(entries) < opts.Limit {
		limit := pageSize
		if remaining := opts.Limit - len(entries); remaining < limit {
			limit = remaining
		}

		query := url.Values{}
		query.Set("timePeriod", opts.TimePeriod)
		query.Set("orderBy", opts.OrderBy)
		query.Set("category", opts.Category)
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))

		data, err := c.getJSON(ctx, "/v1/leaderboard", query)
		if err != nil {
			return nil, err
		}

		page, ok := asRecords(data)
		if !ok || len(page) == 0 {
			break
		}

		for _, item := range page {
			addr := item.FirstString("proxyWallet", "user")
			if addr == "" {
				continue
			}
			entries = append(entries, LeaderboardEntry{
				UserID:      addr,
				DisplayName: item.FirstString("userName", "name"),
			})
		}

		if len(page) < limit {
			break
		}
		offset += limit
	}

	return entries, nil
}
