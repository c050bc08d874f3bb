package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bankqif/bankqif/internal/model"
)

// record is one delimited row with its 1-based line number.
type record struct {
	line   int
	fields []string
}

// readDelimited splits content into records. Blank lines are dropped.
// Quotes are honoured when present but not required.
func readDelimited(content string, comma rune) ([]record, error) {
	cr := csv.NewReader(strings.NewReader(content))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records []record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		if isBlank(fields) {
			continue
		}
		line, _ := cr.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
	return records, nil
}

// readTabbed splits content into tab-separated records. Quote characters are
// ordinary text. Blank lines are dropped.
func readTabbed(content string) []record {
	var records []record
	n := 0
	for line := range strings.Lines(content) {
		n++
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if isBlank(fields) {
			continue
		}
		records = append(records, record{line: n, fields: fields})
	}
	return records
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// newTransaction builds a Transaction from raw statement fields.
func newTransaction(dateStr, amountStr, payee, target, memo string) (model.Transaction, error) {
	date, err := ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: parsing date: %w", ErrMalformedRow, err)
	}

	amount, amountText, err := ParseAmount(amountStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: parsing amount: %w", ErrMalformedRow, err)
	}

	return model.Transaction{
		Date:          date,
		DateText:      FormatDate(date),
		Payee:         strings.TrimSpace(payee),
		Amount:        amount,
		AmountText:    amountText,
		Memo:          strings.TrimSpace(memo),
		TargetAccount: strings.TrimSpace(target),
	}, nil
}

// firstNonEmpty returns the first argument that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
