package jobs

import (
	"strconv"

	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
