// Package report writes a per-account summary of a conversion run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bankqif/bankqif/internal/model"
)

// Status values in the summary.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const (
	numFields = 6
	colName   = 0
	colIBAN   = 1
	colType   = 2
	colCount  = 3
	colStatus = 4
	colError  = 5
)

var header = []string{"account_name", "iban", "file_type", "transactions", "status", "error"}

// WriteSummary writes one CSV row per account, errored ones included.
func WriteSummary(w io.Writer, accounts []*model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an account's outcome to a summary row.
func MarshalAccount(acct *model.Account) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colIBAN] = acct.IBAN
	row[colType] = acct.FileType
	row[colCount] = strconv.Itoa(len(acct.Transactions))
	if acct.OK() {
		row[colStatus] = StatusOK
	} else {
		row[colStatus] = StatusFailed
		row[colError] = acct.Err.Error()
	}
	return row
}
