// Package iban converts Finnish IBANs to the legacy national account-number
// format used in older statement exports.
package iban

import (
	"strings"
	"sync"
	"unicode"
)

// finnishLength is the length of a Finnish IBAN without whitespace, in characters.
const finnishLength = 18

// ToLegacyFinnish converts "FIkk bbbb bbcc cccc cx" into "bbbbbb-ccccccx"
// with leading zeros of the account part removed.
//
//	"FI91 9999 9900 0123 45" -> "999999-12345"
//
// The second return value is false for non-Finnish or malformed input.
func ToLegacyFinnish(s string) (string, bool) {
	if !strings.HasPrefix(s, "FI") {
		return "", false
	}

	compact := []rune(stripSpace(s))
	if len(compact) != finnishLength {
		return "", false
	}

	// Drop country code and checksum.
	compact = compact[4:]
	bank := string(compact[:6])
	account := strings.TrimLeft(string(compact[6:]), "0")
	return bank + "-" + account, true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Cache memoizes ToLegacyFinnish keyed by the raw input string.
// The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	legacy string
	ok     bool
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// ToLegacyFinnish is the memoized form of the package-level function.
func (c *Cache) ToLegacyFinnish(s string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[s]; ok {
		return e.legacy, e.ok
	}
	legacy, ok := ToLegacyFinnish(s)
	c.entries[s] = cacheEntry{legacy: legacy, ok: ok}
	return legacy, ok
}

// Len returns the number of memoized inputs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Variants returns the forms in which the account number s may appear in a
// counterpart description: as given, without whitespace, and in legacy
// national format when convertible. Empty forms and duplicates are omitted.
// A nil cache converts without memoizing.
func Variants(s string, c *Cache) []string {
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		for _, seen := range out {
			if seen == v {
				return
			}
		}
		out = append(out, v)
	}

	add(s)
	add(stripSpace(s))

	var legacy string
	var ok bool
	if c != nil {
		legacy, ok = c.ToLegacyFinnish(s)
	} else {
		legacy, ok = ToLegacyFinnish(s)
	}
	if ok {
		add(legacy)
	}
	return out
}
