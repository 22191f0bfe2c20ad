package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"country-registry/core/apperrors"
	"country-registry/core/utils"
)

// Snapshot is one complete listing of countries from the external source.
type Snapshot struct {
	// Countries holds the records in source order.
	Countries []RawCountry
	// Body is the payload as received, kept for archiving.
	Body []byte
	// Source names where the snapshot came from (URL or object key).
	Source string
	// FetchedAt is when the snapshot was retrieved.
	FetchedAt time.Time
}

// CurrencyInfo is one entry of a record's currency mapping.
type CurrencyInfo struct {
	Code string
	Name string
}

// RawCountry is a loosely typed snapshot record. Fields are read by dot path,
// e.g. "name.common". Currencies keep the order of the payload.
type RawCountry struct {
	fields     map[string]any
	currencies []CurrencyInfo
}

// ParseSnapshot decodes a JSON array of country objects.
// A body that is not an array fails with apperrors.ErrFetch. Elements that are
// not objects are kept as empty records and rejected later as malformed.
func ParseSnapshot(body []byte) ([]RawCountry, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("%w: snapshot is not a JSON array: %v", apperrors.ErrFetch, err)
	}
	if elements == nil {
		return nil, fmt.Errorf("%w: snapshot is not a JSON array", apperrors.ErrFetch)
	}

	countries := make([]RawCountry, len(elements))
	for i, element := range elements {
		_ = countries[i].UnmarshalJSON(element)
	}
	return countries, nil
}

// UnmarshalJSON decodes one record. Numbers are kept as json.Number.
func (rc *RawCountry) UnmarshalJSON(data []byte) error {
	rc.fields = nil
	rc.currencies = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	rc.fields = fields

	var probe struct {
		Currencies json.RawMessage `json:"currencies"`
	}
	if err := json.Unmarshal(data, &probe); err == nil {
		rc.currencies = orderedCurrencies(probe.Currencies)
	}
	return nil
}

// orderedCurrencies streams a currency object and returns its entries in
// payload order. Anything that is not an object yields no currencies.
func orderedCurrencies(raw json.RawMessage) []CurrencyInfo {
	if len(raw) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	var out []CurrencyInfo
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		code, _ := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return out
		}
		if code != "" {
			out = append(out, CurrencyInfo{Code: code, Name: currencyName(value)})
		}
	}
	return out
}

func currencyName(entry any) string {
	obj, ok := entry.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := utils.ToString(obj["name"])
	return name
}

// Lookup walks a dot separated path through nested objects.
func (rc RawCountry) Lookup(path string) (any, bool) {
	var current any = rc.fields
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// Text returns the scalar at path, or nil when absent or not a scalar.
func (rc RawCountry) Text(path string) *string {
	v, ok := rc.Lookup(path)
	if !ok {
		return nil
	}
	s, ok := utils.ToString(v)
	if !ok {
		return nil
	}
	return &s
}

// Name returns name.common, the natural key of a country.
func (rc RawCountry) Name() (string, error) {
	name := rc.Text("name.common")
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", fmt.Errorf("%w: missing name.common", apperrors.ErrDataShape)
	}
	return *name, nil
}

func (rc RawCountry) Region() *string { return rc.Text("region") }
func (rc RawCountry) SubRegion() *string { return rc.Text("subregion") }
func (rc RawCountry) Demonym() *string { return rc.Text("demonyms.eng.m") }
func (rc RawCountry) Flag() *string { return rc.Text("flags.png") }

// Population returns the population, or nil when absent, fractional or negative.
func (rc RawCountry) Population() *int64 {
	v, ok := rc.Lookup("population")
	if !ok {
		return nil
	}
	n, ok := utils.ToInt64(v)
	if !ok || n < 0 {
		return nil
	}
	return &n
}

// Independent returns the independence flag, or nil when absent.
func (rc RawCountry) Independent() *bool {
	v, ok := rc.Lookup("independent")
	if !ok {
		return nil
	}
	b, ok := utils.ToBool(v)
	if !ok {
		return nil
	}
	return &b
}

// Currencies returns the currency mapping in payload order.
func (rc RawCountry) Currencies() []CurrencyInfo {
	return rc.currencies
}

// FirstCurrency returns the first currency of the record. The name falls back
// to the code when the entry carries none.
func (rc RawCountry) FirstCurrency() (CurrencyInfo, bool) {
	if len(rc.currencies) == 0 {
		return CurrencyInfo{}, false
	}
	first := rc.currencies[0]
	if strings.TrimSpace(first.Name) == "" {
		first.Name = first.Code
	}
	return first, true
}
