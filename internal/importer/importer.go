// Package importer parses decoded bank statement exports into canonical
// transactions.
package importer

import (
	"errors"
	"strings"

	"github.com/bankqif/bankqif/internal/model"
)

var (
	// ErrUnsupportedInput is returned when content is empty or lacks the
	// structural shape a parser expects.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrMalformedRow is returned when a data row cannot be parsed. One bad
	// row fails the whole file.
	ErrMalformedRow = errors.New("malformed row")
)

// Parser converts one bank's statement export into Transactions.
type Parser interface {
	// Format returns the file type name, e.g. "op".
	Format() string
	// IsSupported is a cheap structural check, not a full parse.
	IsSupported(content string) bool
	// Parse returns the transactions in statement order.
	Parse(content string) ([]model.Transaction, error)
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	return append([]string(nil), r.order...)
}

// Detect returns the first registered parser that recognizes content, or nil.
func (r *Registry) Detect(content string) Parser {
	for _, key := range r.order {
		if p := r.parsers[key]; p.IsSupported(content) {
			return p
		}
	}
	return nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&OPParser{})
	r.Register(&NordeaParser{})
	return r
}

// firstLine returns the first non-blank line of content.
func firstLine(content string) string {
	for line := range strings.Lines(content) {
		if s := strings.TrimRight(line, "\r\n"); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
