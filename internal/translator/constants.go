package translator

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Constants maps domain constant names to their integer values. Identifiers
// found here are substituted by their value instead of becoming symbols.
type Constants map[string]int64

// DefaultConstants returns the consensus constants contracts commonly refer to.
func DefaultConstants() Constants {
	return Constants{
		"INITIAL_SUBSIDY":  50_0000_0000,
		"MAX_MONEY":        21_000_000_0000_0000,
		"HALVING_INTERVAL": 210_000,
		"SATOSHIS_PER_BTC": 100_000_000,
		"MAX_BLOCK_SIZE":   1_000_000,
		"MAX_TX_SIZE":      100_000,
		"MAX_SCRIPT_SIZE":  10_000,
		"MAX_STACK_SIZE":   1000,
	}
}

// Lookup resolves name, falling back to the last path segment so that
// consensus::MAX_MONEY and MAX_MONEY resolve alike.
func (c Constants) Lookup(name string) (int64, bool) {
	if v, ok := c[name]; ok {
		return v, true
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		v, ok := c[name[i+2:]]
		return v, ok
	}
	return 0, false
}

// Merge returns a new table holding c overridden by other.
func (c Constants) Merge(other Constants) Constants {
	result := make(Constants, len(c)+len(other))
	for k, v := range c {
		result[k] = v
	}
	for k, v := range other {
		result[k] = v
	}
	return result
}

// LoadConstants reads a YAML mapping of constant names to integer values.
// Values may be written as numbers or strings such as "0x10" or "21_000_000".
func LoadConstants(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read constants %s", path)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse constants %s", path)
	}
	result := make(Constants, len(raw))
	for name, text := range raw {
		v, err := ParseInt(text)
		if err != nil {
			return nil, errors.Wrapf(err, "constant %s", name)
		}
		result[name] = v
	}
	return result, nil
}

var intSuffixes = []string{
	"u128", "i128", "usize", "isize", "u64", "i64", "u32", "i32", "u16", "i16", "u8", "i8",
}

// ParseInt parses an integer literal as written in source: decimal or 0x hex,
// with optional _ separators and a width suffix (10u64). The value must fit
// in an int64.
func ParseInt(text string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "_", "")
	for _, suffix := range intSuffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	if s == "" {
		return 0, errorf(ParseError, "empty integer literal %q", text)
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return 0, errorf(ParseError, "malformed integer literal %q", text)
	}
	if !v.IsInt64() {
		return 0, errorf(ParseError, "integer literal %q out of range", text)
	}
	return v.Int64(), nil
}
