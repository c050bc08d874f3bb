package importer

import (
	"fmt"
	"strings"

	"github.com/bankqif/bankqif/internal/model"
)

// NordeaParser parses Nordea account statement exports: a "Tilinumero"
// preamble line followed by a tab-delimited table, UTF-8 encoded. Fields are
// never quoted.
type NordeaParser struct{}

const (
	nordeaPreamble    = "Tilinumero\t"
	nordeaHeaderFirst = "Kirjauspäivä"
)

const (
	nordeaNumFields  = 13
	nordeaColDate    = 0
	nordeaColAmount  = 3
	nordeaColPayee   = 4
	nordeaColAccount = 5
	nordeaColBIC     = 6
	nordeaColKind    = 7
	nordeaColMessage = 10
)

// Format returns the parser name.
func (p *NordeaParser) Format() string { return "nordea" }

// IsSupported reports whether content starts with the account-number preamble.
func (p *NordeaParser) IsSupported(content string) bool {
	return strings.HasPrefix(firstLine(content), nordeaPreamble)
}

// AccountNumber returns the account number named in the statement preamble.
func (p *NordeaParser) AccountNumber(content string) (string, bool) {
	if !p.IsSupported(content) {
		return "", false
	}
	num := strings.TrimSpace(strings.TrimPrefix(firstLine(content), nordeaPreamble))
	return num, num != ""
}

// Parse reads a Nordea statement and returns its transactions.
func (p *NordeaParser) Parse(content string) ([]model.Transaction, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty Nordea statement", ErrUnsupportedInput)
	}
	if !p.IsSupported(content) {
		return nil, fmt.Errorf("%w: missing Nordea account preamble", ErrUnsupportedInput)
	}

	records := readTabbed(content)

	// records[0] is the preamble, records[1] the column header.
	if len(records) < 2 || strings.TrimSpace(records[1].fields[0]) != nordeaHeaderFirst {
		return nil, fmt.Errorf("%w: missing Nordea column header", ErrUnsupportedInput)
	}

	var txns []model.Transaction
	for _, rec := range records[2:] {
		txn, err := parseNordeaRow(rec.fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rec.line, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseNordeaRow(fields []string) (model.Transaction, error) {
	if len(fields) < nordeaNumFields {
		return model.Transaction{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, nordeaNumFields, len(fields))
	}

	return newTransaction(
		fields[nordeaColDate],
		fields[nordeaColAmount],
		firstNonEmpty(fields[nordeaColPayee], fields[nordeaColKind]),
		nordeaTarget(fields[nordeaColAccount], fields[nordeaColBIC]),
		fields[nordeaColMessage],
	)
}

// nordeaTarget joins the counterpart account and BIC as "FI.. / BIC".
func nordeaTarget(account, bic string) string {
	var parts []string
	for _, s := range []string{account, bic} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " / ")
}
