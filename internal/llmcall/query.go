package llmcall

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"
)

// DefaultLimit is the page size used when a query sets none.
const DefaultLimit = 100

// Kinds lists every call kind in the order they happen during a reading.
var Kinds = []string{KindNarrative, KindIllustration, KindChat}

// ParseQuery builds a filter from URL query parameters: kind, card_id,
// provider, success, limit, offset, after and before (RFC 3339). Limit
// defaults to DefaultLimit and is capped at DefaultCapacity.
func ParseQuery(q url.Values) (QueryFilter, error) {
	f := QueryFilter{
		Kind:     q.Get("kind"),
		CardID:   q.Get("card_id"),
		Provider: q.Get("provider"),
		Limit:    DefaultLimit,
	}
	if f.Kind != "" && !slices.Contains(Kinds, f.Kind) {
		return f, fmt.Errorf("invalid kind %q: must be one of %v", f.Kind, Kinds)
	}

	if v := q.Get("success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid success %q: must be true or false", v)
		}
		f.Success = &b
	}

	var err error
	if f.Limit, err = intParam(q, "limit", f.Limit); err != nil {
		return f, err
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	f.Limit = min(f.Limit, DefaultCapacity)
	if f.Offset, err = intParam(q, "offset", 0); err != nil {
		return f, err
	}
	if f.Offset < 0 {
		return f, fmt.Errorf("invalid offset %d: must not be negative", f.Offset)
	}

	if f.After, err = timeParam(q, "after"); err != nil {
		return f, err
	}
	if f.Before, err = timeParam(q, "before"); err != nil {
		return f, err
	}
	return f, nil
}

// Values encodes the filter as query parameters accepted by ParseQuery.
// Zero fields are omitted.
func (f QueryFilter) Values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("kind", f.Kind)
	set("card_id", f.CardID)
	set("provider", f.Provider)
	if f.Success != nil {
		q.Set("success", strconv.FormatBool(*f.Success))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.After != nil {
		q.Set("after", f.After.Format(time.RFC3339))
	}
	if f.Before != nil {
		q.Set("before", f.Before.Format(time.RFC3339))
	}
	return q
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, v)
	}
	return n, nil
}

func timeParam(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be RFC 3339, e.g. 2026-01-15T00:00:00Z", key, v)
	}
	return &t, nil
}
