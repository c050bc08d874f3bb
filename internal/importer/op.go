package importer

import (
	"fmt"
	"strings"

	"github.com/bankqif/bankqif/internal/model"
)

// OPParser parses OP (Osuuspankki) account statement CSV exports. The files
// are semicolon-delimited and ISO-8859-15 encoded; content must already be
// decoded.
type OPParser struct{}

// opHeaderPrefix identifies the OP export by its first three columns.
const opHeaderPrefix = "Kirjauspäivä;Arvopäivä;Määrä"

const (
	opNumFields  = 10
	opColDate    = 0
	opColAmount  = 2
	opColKind    = 4
	opColPayee   = 5
	opColTarget  = 6
	opColMessage = 8
)

// Format returns the parser name.
func (p *OPParser) Format() string { return "op" }

// IsSupported reports whether content starts with the OP header.
func (p *OPParser) IsSupported(content string) bool {
	header := strings.ReplaceAll(firstLine(content), `"`, "")
	return strings.HasPrefix(header, opHeaderPrefix)
}

// Parse reads an OP statement and returns its transactions.
func (p *OPParser) Parse(content string) ([]model.Transaction, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty OP statement", ErrUnsupportedInput)
	}
	if !p.IsSupported(content) {
		return nil, fmt.Errorf("%w: missing OP header", ErrUnsupportedInput)
	}

	records, err := readDelimited(content, ';')
	if err != nil {
		return nil, fmt.Errorf("reading OP statement: %w", err)
	}

	var txns []model.Transaction
	for _, rec := range records[1:] {
		txn, err := parseOPRow(rec.fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rec.line, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseOPRow(fields []string) (model.Transaction, error) {
	if len(fields) < opNumFields {
		return model.Transaction{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, opNumFields, len(fields))
	}

	return newTransaction(
		fields[opColDate],
		fields[opColAmount],
		firstNonEmpty(fields[opColPayee], fields[opColKind]),
		fields[opColTarget],
		cleanOPMessage(fields[opColMessage]),
	)
}

// cleanOPMessage strips the quoting OP wraps around free-text messages,
// e.g. "'Viesti: Lunch money'" -> "Lunch money".
func cleanOPMessage(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "'")
	s = strings.TrimPrefix(s, "Viesti: ")
	return strings.TrimSpace(s)
}
