package api

// RawRecord is a single API record with no fixed schema. The data API
// returns different field sets per market category, so records stay generic
// until the normalizer maps them onto canonical rows.
type RawRecord map[string]any

// FirstString returns the first non-empty string value among keys, in
// priority order.
func (r RawRecord) FirstString(keys ...string) string {
	for _, key := range keys {
		if s, ok := r[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// LeaderboardEntry identifies one ranked user.
type LeaderboardEntry struct {
	UserID      string // Wallet address
	DisplayName string // Optional display name
}

// LeaderboardOptions configures a FetchLeaderboard call.
type LeaderboardOptions struct {
	Limit      int    // Total entries to fetch
	TimePeriod string // e.g. "month"
	OrderBy    string // e.g. "PNL"
	Category   string // e.g. "overall"
	PageSize   int    // Entries per request
}

// PositionsOptions configures a positions fetch for one user.
type PositionsOptions struct {
	PageSize int // Records per request
	MaxTotal int // Cap on total records; 0 = unbounded
}

// asRecords converts a decoded JSON value into raw records. ok is false
// when the response is not a list, which terminates pagination.
func asRecords(data any) ([]RawRecord, bool) {
	list, ok := data.([]any)
	if !ok {
		return nil, false
	}
	records := make([]RawRecord, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			records = append(records, RawRecord(m))
		}
	}
	return records, true
}
