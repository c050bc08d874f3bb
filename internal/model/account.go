package model

// Account is the conversion unit: one input statement mapped to one ledger account.
type Account struct {
	Name         string
	IBAN         string
	FileType     string
	Transactions []Transaction // statement order
	Err          error         // set instead of Transactions when import failed
}

// OK reports whether the account imported without error.
func (a *Account) OK() bool {
	return a != nil && a.Err == nil
}

// Usable returns the error-free accounts, preserving order.
func Usable(accounts []*Account) []*Account {
	var out []*Account
	for _, a := range accounts {
		if a.OK() {
			out = append(out, a)
		}
	}
	return out
}
