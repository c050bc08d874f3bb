// Package reconcile finds transfers between the user's own accounts. The
// receiving leg of each transfer is removed as a duplicate and the sending
// leg is categorized with the receiving account's name.
package reconcile

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bankqif/bankqif/internal/categorize"
	"github.com/bankqif/bankqif/internal/iban"
	"github.com/bankqif/bankqif/internal/model"
)

// Window is how long after the sending date the receiving leg may be booked.
const Window = 7 * 24 * time.Hour

// Stats summarizes one Run.
type Stats struct {
	Candidates int // outflows to self
	Resolved   int // candidates whose counterpart account was found
	Matched    int // receiving legs removed
}

// Unmatched returns the number of resolved transfers without a receiving leg.
func (s Stats) Unmatched() int {
	return s.Resolved - s.Matched
}

// Reconciler matches own-account transfers. It keeps an IBAN cache between
// runs and is not safe for concurrent Run calls on the same accounts.
type Reconciler struct {
	self  []*regexp.Regexp
	cache *iban.Cache
	log   zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for per-transfer debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) { r.log = l }
}

// New creates a Reconciler for the given self patterns.
func New(self []*regexp.Regexp, opts ...Option) *Reconciler {
	r := &Reconciler{
		self:  self,
		cache: iban.NewCache(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromStrings compiles self patterns case-insensitively.
func NewFromStrings(self []string, opts ...Option) (*Reconciler, error) {
	patterns, err := categorize.CompilePatterns(self)
	if err != nil {
		return nil, err
	}
	return New(patterns, opts...), nil
}

// Run reconciles transfers across the error-free accounts in place.
//
// For every outflow whose payee is the user, the counterpart account is the
// first other account whose number appears in the transaction's target
// description. Its first inflow of the opposite amount, paid by the user and
// dated within Window after the outflow, is removed, and the outflow is
// categorized with the counterpart account's name. Removals take effect
// immediately, so an inflow is matched at most once.
func (r *Reconciler) Run(accounts []*model.Account) Stats {
	usable := model.Usable(accounts)
	var stats Stats

	for _, acct := range usable {
		for i := range acct.Transactions {
			t := &acct.Transactions[i]
			if !t.IsOutflow() || !categorize.MatchAny(r.self, t.Payee) {
				continue
			}
			stats.Candidates++

			target := r.findTarget(acct, t, usable)
			if target == nil {
				continue
			}
			stats.Resolved++

			if !r.removeReceiving(target, t) {
				r.log.Debug().
					Str("account", acct.Name).
					Str("target", target.Name).
					Str("date", t.DateText).
					Str("amount", t.AmountText).
					Msg("no receiving transaction")
				continue
			}
			t.Category = target.Name
			stats.Matched++

			r.log.Debug().
				Str("account", acct.Name).
				Str("target", target.Name).
				Str("date", t.DateText).
				Str("amount", t.AmountText).
				Msg("own-account transfer")
		}
	}
	return stats
}

// findTarget returns the account the outflow t was sent to, or nil. The
// sending account itself is never a target.
func (r *Reconciler) findTarget(from *model.Account, t *model.Transaction, accounts []*model.Account) *model.Account {
	if t.TargetAccount == "" {
		return nil
	}
	for _, a := range accounts {
		if a == from {
			continue
		}
		for _, v := range iban.Variants(a.IBAN, r.cache) {
			if strings.Contains(t.TargetAccount, v) {
				return a
			}
		}
	}
	return nil
}

// removeReceiving deletes the first matching inflow for t from target and
// reports whether one was found.
func (r *Reconciler) removeReceiving(target *model.Account, t *model.Transaction) bool {
	want := t.Amount.Neg()
	last := t.Date.Add(Window)

	idx := slices.IndexFunc(target.Transactions, func(rt model.Transaction) bool {
		if rt.Date.Before(t.Date) || rt.Date.After(last) {
			return false
		}
		if !rt.Amount.Equal(want) {
			return false
		}
		return categorize.MatchAny(r.self, rt.Payee)
	})
	if idx < 0 {
		return false
	}
	target.Transactions = slices.Delete(target.Transactions, idx, idx+1)
	return true
}
