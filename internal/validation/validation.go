// Package validation holds the field-level acceptance rules shared by every
// write operation. The rules are pure; uniqueness delegates its lookup to the
// caller.
package validation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

var (
	internationalPhone = regexp.MustCompile(`^\+\d{7,15}$`)
	groupedPhone       = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// EmailLookup reports whether a customer with the given email is already stored
type EmailLookup func(ctx context.Context, email string) (bool, error)

// EmailUniqueness fails with EmailTaken when lookup finds the email. Lookup
// errors are returned wrapped and untouched otherwise.
func EmailUniqueness(ctx context.Context, email string, lookup EmailLookup) error {
	exists, err := lookup(ctx, email)
	if err != nil {
		return fmt.Errorf("email lookup: %w", err)
	}
	if exists {
		return models.EmailTaken(email)
	}
	return nil
}

// PhoneFormat accepts an empty phone, "+" followed by 7 to 15 digits, or
// NNN-NNN-NNNN.
func PhoneFormat(phone string) error {
	if phone == "" {
		return nil
	}
	if internationalPhone.MatchString(phone) || groupedPhone.MatchString(phone) {
		return nil
	}
	return models.InvalidPhone(phone)
}

// Storage limits: prices are NUMERIC(10,2), stock is a 32-bit INTEGER
const (
	PriceScale = 2
	MaxStock   = math.MaxInt32
)

// MaxPrice is the exclusive upper bound of a storable price
var MaxPrice = decimal.New(1, 8)

// PriceValid fails when price <= 0, carries more than two decimal places,
// or does not fit the price column.
func PriceValid(price decimal.Decimal) error {
	if !price.IsPositive() {
		return models.InvalidPrice()
	}
	if !price.Equal(price.Round(PriceScale)) || price.GreaterThanOrEqual(MaxPrice) {
		return models.InvalidPriceFormat(price.String())
	}
	return nil
}

// StockInRange fails when stock < 0 or exceeds MaxStock
func StockInRange(stock int) error {
	if stock < 0 {
		return models.InvalidStock()
	}
	if stock > MaxStock {
		return models.StockTooLarge(stock)
	}
	return nil
}

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// Struct runs the `validate` tags of a request struct and converts the first
// violation into an INVALID_INPUT error.
func Struct(v any) error {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})

	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return models.ErrInvalidInput(fmt.Sprintf("%s is required", fe.Field()))
		default:
			return models.ErrInvalidInput(fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}
	return models.ErrInvalidInput(err.Error())
}
