package normalize

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polymoney/polymarket-data/internal/api"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestClosedPosition(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		raw := api.RawRecord{
			"conditionId": "0xcond1",
			"marketSlug":  "will-it-rain",
			"marketTitle": "Will it rain?",
			"side":        "Yes",
			"quantity":    12.5,
			"entryAvg":    0.42,
			"exitAvg":     0.97,
			"realizedPnl": 6.875,
			"fees":        0.1,
			"openedAt":    "2025-06-01T10:00:00Z",
			"closedAt":    "2025-06-10T18:30:00Z",
			"closeReason": "resolved",
			"txHash":      "0xdeadbeef",
		}

		row := ClosedPosition(raw)

		if row.MarketExternalID != "0xcond1" {
			t.Errorf("MarketExternalID = %q, want 0xcond1", row.MarketExternalID)
		}
		if row.Side != "Yes" {
			t.Errorf("Side = %q, want Yes", row.Side)
		}
		if row.Quantity == nil || !row.Quantity.Equal(mustDec(t, "12.5")) {
			t.Errorf("Quantity = %v, want 12.5", row.Quantity)
		}
		if row.TxHash != "0xdeadbeef" {
			t.Errorf("TxHash = %q, want 0xdeadbeef", row.TxHash)
		}
		if row.OpenedAt == nil || !row.OpenedAt.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("OpenedAt = %v", row.OpenedAt)
		}
		if row.CloseReason != "resolved" {
			t.Errorf("CloseReason = %q, want resolved", row.CloseReason)
		}
	})

	t.Run("alias priority", func(t *testing.T) {
		tests := []struct {
			name string
			raw  api.RawRecord
			want string
		}{
			{"conditionId wins", api.RawRecord{"conditionId": "a", "marketId": "b", "market_id": "c"}, "a"},
			{"marketId fallback", api.RawRecord{"marketId": "b", "market_id": "c"}, "b"},
			{"market_id fallback", api.RawRecord{"market_id": "c"}, "c"},
			{"no alias", api.RawRecord{}, ""},
			{"empty alias skipped", api.RawRecord{"conditionId": "", "marketId": "b"}, "b"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := ClosedPosition(tt.raw).MarketExternalID; got != tt.want {
					t.Errorf("MarketExternalID = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("tx reference falls back to asset", func(t *testing.T) {
		row := ClosedPosition(api.RawRecord{"asset": "asset-1"})
		if row.TxHash != "asset-1" {
			t.Errorf("TxHash = %q, want asset-1", row.TxHash)
		}
	})

	t.Run("closedAt falls back to endDate", func(t *testing.T) {
		row := ClosedPosition(api.RawRecord{"endDate": "2025-03-15"})
		want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
		if row.ClosedAt == nil || !row.ClosedAt.Equal(want) {
			t.Errorf("ClosedAt = %v, want %v", row.ClosedAt, want)
		}
	})

	t.Run("numeric strings accepted", func(t *testing.T) {
		row := ClosedPosition(api.RawRecord{"quantity": "3.25"})
		if row.Quantity == nil || !row.Quantity.Equal(mustDec(t, "3.25")) {
			t.Errorf("Quantity = %v, want 3.25", row.Quantity)
		}
	})

	t.Run("malformed fields yield nil not errors", func(t *testing.T) {
		row := ClosedPosition(api.RawRecord{
			"quantity": "not-a-number",
			"openedAt": "not-a-date",
			"closedAt": 12345.0,
		})
		if row.Quantity != nil {
			t.Errorf("Quantity = %v, want nil", row.Quantity)
		}
		if row.OpenedAt != nil {
			t.Errorf("OpenedAt = %v, want nil", row.OpenedAt)
		}
		if row.ClosedAt != nil {
			t.Errorf("ClosedAt = %v, want nil", row.ClosedAt)
		}
	})

	t.Run("raw payload retained", func(t *testing.T) {
		raw := api.RawRecord{"conditionId": "0xc", "unknownField": "kept"}
		row := ClosedPosition(raw)

		var decoded map[string]any
		if err := json.Unmarshal([]byte(row.RawJSON), &decoded); err != nil {
			t.Fatalf("RawJSON not valid JSON: %v", err)
		}
		if decoded["unknownField"] != "kept" {
			t.Errorf("unknown field lost from raw payload: %v", decoded)
		}
	})
}

func TestActivePosition(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		raw := api.RawRecord{
			"asset":        "asset-1",
			"conditionId":  "0xcond1",
			"size":         100.0,
			"avgPrice":     0.35,
			"initialValue": 35.0,
			"currentValue": 60.0,
			"cashPnl":      25.0,
			"percentPnl":   71.4,
			"curPrice":     0.6,
			"redeemable":   true,
			"mergeable":    false,
			"title":        "Will it rain?",
			"slug":         "will-it-rain",
			"eventSlug":    "weather",
			"outcome":      "Yes",
			"outcomeIndex": 0.0,
			"endDate":      "2025-12-31",
			"negativeRisk": false,
		}

		row := ActivePosition(raw)

		if row.Asset != "asset-1" || row.ConditionID != "0xcond1" {
			t.Errorf("keys = %q/%q", row.Asset, row.ConditionID)
		}
		if row.Size == nil || !row.Size.Equal(mustDec(t, "100")) {
			t.Errorf("Size = %v, want 100", row.Size)
		}
		if row.Redeemable == nil || !*row.Redeemable {
			t.Errorf("Redeemable = %v, want true", row.Redeemable)
		}
		if row.Mergeable == nil || *row.Mergeable {
			t.Errorf("Mergeable = %v, want false", row.Mergeable)
		}
		if row.OutcomeIndex == nil || *row.OutcomeIndex != 0 {
			t.Errorf("OutcomeIndex = %v, want 0", row.OutcomeIndex)
		}
		if row.EndDate == nil || !row.EndDate.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("EndDate = %v", row.EndDate)
		}
	})

	t.Run("icon stripped from row and raw payload", func(t *testing.T) {
		raw := api.RawRecord{
			"asset": "asset-1",
			"icon":  strings.Repeat("data:image/png;base64,AAAA", 100),
			"title": "kept",
		}

		row := ActivePosition(raw)

		if row.Icon != "" {
			t.Errorf("Icon = %q, want empty", row.Icon)
		}
		if strings.Contains(row.RawJSON, "base64") {
			t.Error("icon blob leaked into raw payload")
		}
		if !strings.Contains(row.RawJSON, "kept") {
			t.Error("other fields should remain in raw payload")
		}
		// The input record itself is not mutated.
		if _, ok := raw["icon"]; !ok {
			t.Error("input record mutated")
		}
	})

	t.Run("missing fields yield zero values", func(t *testing.T) {
		row := ActivePosition(api.RawRecord{})
		if row.Asset != "" || row.Size != nil || row.AvgPrice != nil || row.Redeemable != nil {
			t.Errorf("zero record produced populated row: %+v", row)
		}
	})
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // RFC3339 in UTC, "" = nil
	}{
		{"rfc3339 utc", "2025-01-02T03:04:05Z", "2025-01-02T03:04:05Z"},
		{"rfc3339 offset", "2025-01-02T03:04:05+02:00", "2025-01-02T01:04:05Z"},
		{"naive datetime", "2025-01-02T03:04:05", "2025-01-02T03:04:05Z"},
		{"bare date", "2025-01-02", "2025-01-02T00:00:00Z"},
		{"garbage", "next tuesday", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTime(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("parseTime(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			want, err := time.Parse(time.RFC3339, tt.want)
			if err != nil {
				t.Fatal(err)
			}
			if got == nil || !got.Equal(want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.input, got, want)
			}
		})
	}
}
