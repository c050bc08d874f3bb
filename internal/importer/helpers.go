package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDate is returned by ParseDate.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidAmount is returned by ParseAmount.
	ErrInvalidAmount = errors.New("invalid amount")
)

var amountPattern = regexp.MustCompile(`^-?\d+\.?\d*$`)

// ParseDate parses a "dd.mm.yyyy" date. Day and month may omit the leading
// zero. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	fields := strings.Split(s, ".")
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	var nums [3]int
	for i, f := range fields {
		if f == "" || strings.TrimFunc(f, isASCIIDigit) != "" {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidDate, s, err)
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31.02 into March; reject instead.
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders d as "dd/mm/yyyy".
func FormatDate(d time.Time) string {
	return d.Format("02/01/2006")
}

// ParseAmount parses a Finnish-style amount such as "-1 500,14". It returns
// the value and its normalized text ("-1500.14").
func ParseAmount(s string) (decimal.Decimal, string, error) {
	norm := strings.Replace(s, ",", ".", 1)
	norm = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, norm)

	if !amountPattern.MatchString(norm) {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	amount, err := decimal.NewFromString(strings.TrimSuffix(norm, "."))
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	return amount, norm, nil
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
