package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Shorthand multipliers spoken by Vietnamese merchants
const (
	Thousand = 1_000
	Million  = 1_000_000
)

var (
	amountPattern  = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)*)\s*(k|nghìn|ngàn|tr|triệu|m)?\s*(?:đ|vnđ|vnd)?$`)
	groupedPattern = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)

	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// ParseMoney parses an amount such as "35000", "35.000", "35k", "35 nghìn",
// "1.5 triệu" or "20.000đ" into the smallest currency unit.
func ParseMoney(s string) (int64, error) {
	m := amountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	number, unit := m[1], strings.ToLower(m[2])

	multiplier := decimal.NewFromInt(1)
	switch unit {
	case "k", "nghìn", "ngàn":
		multiplier = decimal.NewFromInt(Thousand)
	case "tr", "triệu", "m":
		multiplier = decimal.NewFromInt(Million)
	}

	if unit == "" && groupedPattern.MatchString(number) {
		// 35.000 / 1,250,000
		number = strings.NewReplacer(".", "", ",", "").Replace(number)
	} else {
		if strings.Count(number, ".")+strings.Count(number, ",") > 1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		number = strings.ReplaceAll(number, ",", ".")
	}

	value, err := decimal.NewFromString(number)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	amount := value.Mul(multiplier).Round(0)
	if amount.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, s)
	}
	return amount.IntPart(), nil
}

// FormatMoney renders an amount the way vi-VN does, e.g. 35000 -> "35.000đ"
func FormatMoney(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return sign + strings.Join(groups, ".") + "đ"
}

// FormatMoneyShort renders a compact amount: 1500000 -> "1.5M", 35000 -> "35k"
func FormatMoneyShort(amount int64) string {
	switch {
	case amount >= Million:
		return decimal.NewFromInt(amount).Div(decimal.NewFromInt(Million)).Round(1).String() + "M"
	case amount >= Thousand:
		return decimal.NewFromInt(amount).Div(decimal.NewFromInt(Thousand)).Round(0).String() + "k"
	default:
		return strconv.FormatInt(amount, 10)
	}
}
