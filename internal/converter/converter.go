// Package converter runs a full conversion: import every statement, then
// categorize, reconcile own-account transfers and export QIF.
package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bankqif/bankqif/internal/categorize"
	"github.com/bankqif/bankqif/internal/importer"
	"github.com/bankqif/bankqif/internal/logger"
	"github.com/bankqif/bankqif/internal/model"
	"github.com/bankqif/bankqif/internal/qif"
	"github.com/bankqif/bankqif/internal/reconcile"
)

// ErrUnknownFileType is recorded on an account whose file type has no parser.
var ErrUnknownFileType = errors.New("unknown input file type")

// Input is one decoded statement and the account it belongs to.
type Input struct {
	Content     string
	FileType    string // "op" or "nordea"
	AccountName string
	IBAN        string
}

// Result holds every account, errored ones included, and the QIF text of
// the error-free ones.
type Result struct {
	RunID    string
	Accounts []*model.Account
	Ledger   string
	Stats    reconcile.Stats
}

// Failed returns the accounts whose import failed.
func (r *Result) Failed() []*model.Account {
	var out []*model.Account
	for _, a := range r.Accounts {
		if !a.OK() {
			out = append(out, a)
		}
	}
	return out
}

// Converter wires the pipeline stages together.
type Converter struct {
	registry    *importer.Registry
	categorizer *categorize.Categorizer
	reconciler  *reconcile.Reconciler
}

// New creates a Converter.
func New(registry *importer.Registry, categorizer *categorize.Categorizer, reconciler *reconcile.Reconciler) *Converter {
	return &Converter{
		registry:    registry,
		categorizer: categorizer,
		reconciler:  reconciler,
	}
}

// Convert imports all inputs concurrently and waits for every import to
// settle. A failed input is recorded on its own account and never stops the
// others. Categorization, reconciliation and export then run over the
// error-free accounts.
func (c *Converter) Convert(ctx context.Context, inputs []Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("converting: %w", err)
	}

	runID := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Logger()

	accounts := c.importAll(inputs)

	for _, a := range accounts {
		if a.OK() {
			log.Info().Str("account", a.Name).Int("transactions", len(a.Transactions)).Msg("imported")
		} else {
			log.Warn().Str("account", a.Name).Err(a.Err).Msg("import failed")
		}
	}

	categorized := c.categorizer.Apply(accounts)
	stats := c.reconciler.Run(accounts)
	log.Info().
		Int("categorized", categorized).
		Int("transfers", stats.Matched).
		Int("unmatched_transfers", stats.Unmatched()).
		Msg("reconciled")

	var sb strings.Builder
	if err := qif.Write(&sb, accounts); err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}

	return &Result{
		RunID:    runID,
		Accounts: accounts,
		Ledger:   sb.String(),
		Stats:    stats,
	}, nil
}

// importAll creates one account per input and parses them concurrently.
// Each goroutine writes only its own account.
func (c *Converter) importAll(inputs []Input) []*model.Account {
	accounts := make([]*model.Account, len(inputs))
	var g errgroup.Group

	for i, in := range inputs {
		acct := &model.Account{
			Name:     in.AccountName,
			IBAN:     in.IBAN,
			FileType: in.FileType,
		}
		accounts[i] = acct

		p := c.registry.Get(in.FileType)
		if p == nil {
			acct.Err = fmt.Errorf("%w: %q", ErrUnknownFileType, in.FileType)
			continue
		}

		g.Go(func() error {
			txns, err := p.Parse(in.Content)
			if err != nil {
				acct.Err = fmt.Errorf("importing %s statement: %w", p.Format(), err)
				return nil
			}
			acct.Transactions = txns
			return nil
		})
	}

	// Tasks record failures on their account and always return nil.
	_ = g.Wait()
	return accounts
}
