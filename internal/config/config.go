package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bankqif/bankqif/internal/textenc"
)

// Config represents the top-level bankqif.yaml configuration.
type Config struct {
	SelfPatterns    []string        `yaml:"self_patterns"`
	DefaultCategory string          `yaml:"default_category"`
	Categories      []CategoryRule  `yaml:"categories"`
	Accounts        []AccountConfig `yaml:"accounts,omitempty"`
}

// CategoryRule maps payee patterns to a ledger category. Patterns are
// case-insensitive regular expressions; rule order is significant.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// AccountConfig describes one of the user's bank accounts.
type AccountConfig struct {
	Name     string `yaml:"name"`      // ledger account, e.g. "Assets:Current Assets:OP"
	FileType string `yaml:"file_type"` // "op" or "nordea"
	Encoding string `yaml:"encoding"`  // statement file encoding, e.g. "iso-8859-15"
	IBAN     string `yaml:"iban"`
}

// caseInsensitive is prefixed to every configured pattern before compiling.
const caseInsensitive = "(?i)"

// DefaultEncodings gives the usual export encoding per file type.
var DefaultEncodings = map[string]string{
	"op":     "iso-8859-15",
	"nordea": "utf-8",
}

// Load reads a bankqif.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the example rules for a new project.
func Default() *Config {
	return &Config{
		SelfPatterns:    []string{"john smith", "smith john"},
		DefaultCategory: "Expenses:Miscellaneous",
		Categories: []CategoryRule{
			{Name: "Income:Salary", Patterns: []string{"employer name oy"}},
			{Name: "Expenses:Groceries", Patterns: []string{"supermarket", "s.market"}},
			{Name: "Expenses:Dining", Patterns: []string{"restaurant", "ravintola"}},
		},
		Accounts: []AccountConfig{
			{
				Name:     "Assets:Current Assets:OP account",
				FileType: "op",
				Encoding: DefaultEncodings["op"],
				IBAN:     "FI11 2222 2323 4444 55",
			},
			{
				Name:     "Assets:Current Assets:Nordea account",
				FileType: "nordea",
				Encoding: DefaultEncodings["nordea"],
				IBAN:     "FI99 8888 7777 6666 55",
			},
		},
	}
}

// Validate checks account names, file types and patterns. knownTypes lists
// the file types a parser exists for.
func (c *Config) Validate(knownTypes []string) error {
	var problems []string

	for _, p := range c.SelfPatterns {
		if _, err := regexp.Compile(caseInsensitive + p); err != nil {
			problems = append(problems, fmt.Sprintf("self pattern %q: %v", p, err))
		}
	}

	for _, rule := range c.Categories {
		if rule.Name == "" {
			problems = append(problems, "category with empty name")
		}
		for _, p := range rule.Patterns {
			if _, err := regexp.Compile(caseInsensitive + p); err != nil {
				problems = append(problems, fmt.Sprintf("category %q pattern %q: %v", rule.Name, p, err))
			}
		}
	}

	seen := make(map[string]bool)
	for i, a := range c.Accounts {
		if a.Name == "" {
			problems = append(problems, fmt.Sprintf("account %d has no name", i+1))
			continue
		}
		if seen[a.Name] {
			problems = append(problems, fmt.Sprintf("duplicate account %q", a.Name))
		}
		seen[a.Name] = true
		if !contains(knownTypes, strings.ToLower(a.FileType)) {
			problems = append(problems, fmt.Sprintf("account %q: unknown file type %q", a.Name, a.FileType))
		}
		if a.Encoding != "" {
			if _, err := textenc.Lookup(a.Encoding); err != nil {
				problems = append(problems, fmt.Sprintf("account %q: %v", a.Name, err))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// EncodingFor returns the configured encoding, or the file type's default.
func (a AccountConfig) EncodingFor() string {
	if a.Encoding != "" {
		return a.Encoding
	}
	return DefaultEncodings[strings.ToLower(a.FileType)]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
