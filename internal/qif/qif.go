// Package qif writes accounts and their transactions in the Quicken
// Interchange Format as read by GnuCash.
package qif

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bankqif/bankqif/internal/model"
)

// Record and section markers.
const (
	optAutoSwitch   = "!Option:AutoSwitch"
	clearAutoSwitch = "!Clear:AutoSwitch"
	headerAccount   = "!Account"
	headerBank      = "!Type:Bank"
	typeBank        = "TBank"
	endOfRecord     = "^"
)

// Export renders the error-free accounts as QIF text.
func Export(accounts []*model.Account) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = Write(&sb, accounts)
	return sb.String()
}

// Write streams the error-free accounts as QIF to w: an account list
// followed by one transaction block per account.
func Write(w io.Writer, accounts []*model.Account) error {
	usable := model.Usable(accounts)
	bw := bufio.NewWriter(w)
	lw := &lineWriter{w: bw}

	lw.line(optAutoSwitch)
	lw.line(headerAccount)
	for _, a := range usable {
		lw.line("N" + a.Name)
		lw.line(typeBank)
		lw.line(endOfRecord)
	}
	lw.line(clearAutoSwitch)

	for _, a := range usable {
		lw.line(headerAccount)
		lw.line("N" + a.Name)
		lw.line(endOfRecord)
		lw.line(headerBank)
		for _, t := range a.Transactions {
			writeTransaction(lw, t)
		}
	}

	if lw.err != nil {
		return fmt.Errorf("writing QIF: %w", lw.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing QIF: %w", err)
	}
	return nil
}

func writeTransaction(lw *lineWriter, t model.Transaction) {
	lw.line("D" + t.DateText)
	lw.line("P" + t.Payee)
	lw.line("T" + t.AmountText)
	if t.Category != "" {
		lw.line("L[" + t.Category + "]")
	}
	if t.Memo != "" {
		lw.line("M" + t.Memo)
	}
	lw.line(endOfRecord)
}

// lineWriter remembers the first write error so callers can check once.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, s+"\n")
}
