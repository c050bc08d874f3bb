// Package accounts resolves configured bank accounts by name or number.
package accounts

import (
	"fmt"
	"strings"

	"github.com/bankqif/bankqif/internal/config"
	"github.com/bankqif/bankqif/internal/iban"
)

// Service provides in-memory lookup over the configured accounts.
type Service struct {
	accounts []config.AccountConfig
	byName   map[string]config.AccountConfig
	cache    *iban.Cache
}

// NewService creates a Service from the accounts section of a config.
func NewService(accounts []config.AccountConfig) *Service {
	byName := make(map[string]config.AccountConfig, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
	}
	return &Service{accounts: accounts, byName: byName, cache: iban.NewCache()}
}

// Load reads a config file and returns a Service over its accounts.
func Load(path string) (*Service, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return NewService(cfg.Accounts), nil
}

// All returns all accounts in configuration order.
func (s *Service) All() []config.AccountConfig {
	return s.accounts
}

// Get returns an account by name.
func (s *Service) Get(name string) (config.AccountConfig, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Exists reports whether an account name is configured.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ByFileType returns all accounts whose statements use the given format.
func (s *Service) ByFileType(fileType string) []config.AccountConfig {
	var result []config.AccountConfig
	for _, a := range s.accounts {
		if strings.EqualFold(a.FileType, fileType) {
			result = append(result, a)
		}
	}
	return result
}

// ByNumber returns the account whose IBAN matches number in any of its
// written forms: spaced, compact or legacy Finnish.
func (s *Service) ByNumber(number string) (config.AccountConfig, bool) {
	for _, a := range s.accounts {
		if s.SameNumber(a.IBAN, number) {
			return a, true
		}
	}
	return config.AccountConfig{}, false
}

// SameNumber reports whether two account numbers denote the same account.
func (s *Service) SameNumber(a, b string) bool {
	for _, v := range iban.Variants(a, s.cache) {
		for _, w := range iban.Variants(b, s.cache) {
			if v == w {
				return true
			}
		}
	}
	return false
}
