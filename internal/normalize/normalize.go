package normalize

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polymoney/polymarket-data/internal/api"
	"github.com/polymoney/polymarket-data/internal/model"
)

// Field alias priority tables. Resolution takes the first non-empty alias.
var (
	marketIDAliases    = []string{"conditionId", "marketId", "market_id"}
	marketSlugAliases  = []string{"marketSlug", "slug", "eventSlug"}
	marketTitleAliases = []string{"marketTitle", "title"}
	quantityAliases    = []string{"quantity", "totalBought"}
	entryPriceAliases  = []string{"entryAvg", "avgPrice"}
	// Closed payloads lack exitAvg; curPrice is ~1 for resolved winners.
	exitPriceAliases = []string{"exitAvg", "curPrice"}
	// On-chain asset id stands in when no tx hash is provided, keeping
	// the dedup key populated.
	txRefAliases = []string{"txHash", "asset"}
)

// ClosedPosition maps a raw closed-position record onto a canonical row.
// Pure: absent or malformed fields yield zero values, never errors.
func ClosedPosition(raw api.RawRecord) model.ClosedPosition {
	return model.ClosedPosition{
		MarketExternalID: raw.FirstString(marketIDAliases...),
		MarketSlug:       raw.FirstString(marketSlugAliases...),
		MarketTitle:      raw.FirstString(marketTitleAliases...),
		Side:             raw.FirstString("side"),
		Quantity:         firstDecimal(raw, quantityAliases...),
		EntryAvgPrice:    firstDecimal(raw, entryPriceAliases...),
		ExitAvgPrice:     firstDecimal(raw, exitPriceAliases...),
		RealizedPnl:      firstDecimal(raw, "realizedPnl"),
		FeesTotal:        firstDecimal(raw, "fees"),
		OpenedAt:         firstTime(raw, "openedAt"),
		// Sometimes only endDate is present.
		ClosedAt:    firstTime(raw, "closedAt", "endDate"),
		CloseReason: raw.FirstString("closeReason"),
		TxHash:      raw.FirstString(txRefAliases...),
		RawJSON:     marshalRaw(raw),
	}
}

// ActivePosition maps a raw open-position record onto a canonical row.
// The oversized icon blob is stripped from both the column set and the
// retained raw payload to bound row size.
func ActivePosition(raw api.RawRecord) model.ActivePosition {
	return model.ActivePosition{
		Asset:        raw.FirstString("asset"),
		ConditionID:  raw.FirstString("conditionId"),
		Size:         firstDecimal(raw, "size"),
		AvgPrice:     firstDecimal(raw, "avgPrice"),
		InitialValue: firstDecimal(raw, "initialValue"),
		CurrentValue: firstDecimal(raw, "currentValue"),
		CashPnl:      firstDecimal(raw, "cashPnl"),
		PercentPnl:   firstDecimal(raw, "percentPnl"),
		TotalBought:  firstDecimal(raw, "totalBought"),
		RealizedPnl:  firstDecimal(raw, "realizedPnl"),
		CurrentPrice: firstDecimal(raw, "curPrice"),
		Redeemable:   boolValue(raw, "redeemable"),
		Mergeable:    boolValue(raw, "mergeable"),
		Title:        raw.FirstString("title"),
		Slug:         raw.FirstString("slug"),
		EventID:      stringValue(raw, "eventId"),
		EventSlug:    raw.FirstString("eventSlug"),
		Outcome:      raw.FirstString("outcome"),
		OutcomeIndex: intValue(raw, "outcomeIndex"),
		EndDate:      firstTime(raw, "endDate"),
		NegativeRisk: boolValue(raw, "negativeRisk"),
		RawJSON:      marshalRaw(withoutIcon(raw)),
	}
}

// withoutIcon returns a shallow copy of raw with the icon field removed.
func withoutIcon(raw api.RawRecord) api.RawRecord {
	if _, ok := raw["icon"]; !ok {
		return raw
	}
	stripped := make(api.RawRecord, len(raw))
	for k, v := range raw {
		if k == "icon" {
			continue
		}
		stripped[k] = v
	}
	return stripped
}

func marshalRaw(raw api.RawRecord) string {
	data, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(data)
}

// firstDecimal resolves the first alias carrying a usable numeric value.
// The API mixes JSON numbers and numeric strings per endpoint.
func firstDecimal(raw api.RawRecord, keys ...string) *decimal.Decimal {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			d := decimal.NewFromFloat(v)
			return &d
		case string:
			if v == "" {
				continue
			}
			if d, err := decimal.NewFromString(v); err == nil {
				return &d
			}
		}
	}
	return nil
}

// firstTime resolves the first alias that parses as a timestamp. Accepted
// formats: RFC 3339 (with Z or explicit offset), naive ISO 8601 datetime
// (assumed UTC), and bare YYYY-MM-DD dates (UTC midnight). Unparseable
// values are swallowed, not raised.
func firstTime(raw api.RawRecord, keys ...string) *time.Time {
	for _, key := range keys {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			continue
		}
		if t := parseTime(s); t != nil {
			return t
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) *time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func boolValue(raw api.RawRecord, key string) *bool {
	if b, ok := raw[key].(bool); ok {
		return &b
	}
	return nil
}

func intValue(raw api.RawRecord, key string) *int {
	switch v := raw[key].(type) {
	case float64:
		i := int(v)
		return &i
	}
	return nil
}

// stringValue reads a field that may arrive as a string or a number
// (eventId does both).
func stringValue(raw api.RawRecord, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	}
	return ""
}
