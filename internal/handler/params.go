package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// parsePage reads page and page_size. Missing or malformed values fall back
// to the defaults.
func parsePage(query url.Values) (int, int) {
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	return page, pageSize
}

func parseOptionalInt(query url.Values, key string) (*int, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, models.ErrInvalidInput(fmt.Sprintf("%s must be an integer", key))
	}
	return &v, nil
}

func parseOptionalDecimal(query url.Values, key string) (*decimal.Decimal, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, models.ErrInvalidInput(fmt.Sprintf("%s must be a decimal number", key))
	}
	return &v, nil
}

// parseOptionalTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
// (midnight UTC).
func parseOptionalTime(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if v, err := time.Parse(layout, raw); err == nil {
			return &v, nil
		}
	}
	return nil, models.ErrInvalidInput(fmt.Sprintf("%s must be RFC3339 or YYYY-MM-DD", key))
}
