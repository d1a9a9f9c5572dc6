package contract

import "strings"

type Param struct {
	Name string
	Type string
}

// Signature lists the parameters in declaration order. Returns is empty when
// the function has no return value.
type Signature struct {
	Params  []Param
	Returns string
}

func (s *Signature) HasReturn() bool {
	return s != nil && s.Returns != "" && s.Returns != "()"
}

func (s *Signature) ParamType(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, p := range s.Params {
		if p.Name == name {
			return p.Type, true
		}
	}
	return "", false
}

var unsignedTypes = map[string]struct{}{
	"u8": {}, "u16": {}, "u32": {}, "u64": {}, "u128": {}, "usize": {},
	"uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
	"byte": {},
	// Natural is the consensus alias for u64
	"Natural": {},
}

// IsUnsigned reports whether a declared type only admits non-negative values.
// Paths are matched on their last segment, so core::u64 counts.
func IsUnsigned(typ string) bool {
	_, ok := unsignedTypes[lastSegment(typ)]
	return ok
}

func IsBool(typ string) bool {
	return lastSegment(typ) == "bool"
}

func lastSegment(typ string) string {
	typ = strings.TrimSpace(typ)
	typ = strings.TrimLeft(typ, "&*")
	typ = strings.TrimPrefix(typ, "mut ")
	if i := strings.LastIndex(typ, "::"); i >= 0 {
		typ = typ[i+2:]
	}
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	return strings.TrimSpace(typ)
}
