package sip

import (
	"io"
	"sort"
	"strconv"
	"strings"
)

// WrappedString is the value half of a GenericParameter: either a bare
// token-like string, or one that was (or must be) double-quoted. The two
// are kept distinct because some header-parameter values are only legal in
// quoted form, and preserving that distinction is what lets Preserved
// rendering be byte-exact (spec §3.5).
type WrappedString struct {
	Value  string
	Quoted bool
}

func notWrapped(v string) *WrappedString { return &WrappedString{Value: v} }
func quoted(v string) *WrappedString     { return &WrappedString{Value: v, Quoted: true} }

func (w *WrappedString) str() string {
	if w == nil {
		return ""
	}
	return w.Value
}

func (w *WrappedString) render() string {
	if w == nil {
		return ""
	}
	if w.Quoted {
		var b strings.Builder
		b.WriteByte('"')
		for i := 0; i < len(w.Value); i++ {
			c := w.Value[i]
			if c == '"' || c == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		b.WriteByte('"')
		return b.String()
	}
	return quoteIfNeeded(w.Value)
}

// GenericParameter is (name: token, value: Option<WrappedString>), spec
// §3.2/§3.5. A nil Value means the parameter is present as a bare flag
// (e.g. ";lr", ";rport" with no "="), distinct from an explicit empty value.
type GenericParameter struct {
	Name  string
	Value *WrappedString
}

// HeaderParameters is an ordered list of GenericParameter with unique names
// (case-insensitive) rejected at construction, per spec §3.2. Equality
// ignores order (spec §4.4.2).
type HeaderParameters []GenericParameter

func NewHeaderParameters() HeaderParameters {
	return make(HeaderParameters, 0, 4)
}

func (p HeaderParameters) indexOf(name string) int {
	for i, kv := range p {
		if strings.EqualFold(kv.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the raw (unquoted) value and whether the parameter is present.
// A flag-only parameter (";lr") returns ("", true).
func (p HeaderParameters) Get(name string) (string, bool) {
	i := p.indexOf(name)
	if i < 0 {
		return "", false
	}
	return p[i].Value.str(), true
}

// GetValue returns the *WrappedString so callers can distinguish a flag
// parameter (nil) from an explicit empty value.
func (p HeaderParameters) GetValue(name string) (*WrappedString, bool) {
	i := p.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return p[i].Value, true
}

func (p HeaderParameters) Has(name string) bool {
	return p.indexOf(name) >= 0
}

// Add appends a parameter, rejecting a duplicate (case-insensitive) name —
// "A parameter list rejects duplicate names on construction" (spec §3.2).
func (p *HeaderParameters) Add(name string, value *WrappedString) error {
	if p.indexOf(name) >= 0 {
		return newParseError(ErrDuplicatedURIParameters, "generic-param", 0, name)
	}
	*p = append(*p, GenericParameter{Name: name, Value: value})
	return nil
}

// Set overwrites the value for name, adding it if absent (builder-style
// construction, not subject to the duplicate-rejection rule above).
func (p *HeaderParameters) Set(name string, value *WrappedString) {
	if i := p.indexOf(name); i >= 0 {
		(*p)[i].Value = value
		return
	}
	*p = append(*p, GenericParameter{Name: name, Value: value})
}

func (p HeaderParameters) Clone() HeaderParameters {
	if p == nil {
		return nil
	}
	c := make(HeaderParameters, len(p))
	copy(c, p)
	return c
}

func (p HeaderParameters) Len() int { return len(p) }

// render writes the parameter list joined by sep ("" between entries is not
// applicable: params are always sep-prefixed by the caller's own leading
// ";"/"?" marker before the first entry).
func (p HeaderParameters) render(sep byte, w io.StringWriter) {
	for i, kv := range p {
		if i > 0 {
			w.WriteString(string(sep))
		}
		w.WriteString(kv.Name)
		if kv.Value == nil {
			continue
		}
		w.WriteString("=")
		w.WriteString(kv.Value.render())
	}
}

func (p HeaderParameters) String() string {
	var b strings.Builder
	p.render(';', &b)
	return b.String()
}

// caseSensitiveParamNames are compared byte-exact per spec §4.4.2
// ("branch case-sensitive string; tag case-sensitive string").
var caseSensitiveParamNames = map[string]bool{
	"branch": true,
	"tag":    true,
}

// paramValueEqual implements the per-parameter value comparison rule of
// spec §4.4.2: numeric ttl as integer, q as a normalized (trimmed) string,
// branch/tag case-sensitive, everything else (expires included)
// case-insensitive.
func paramValueEqual(name, a, b string) bool {
	lname := strings.ToLower(name)
	switch lname {
	case "ttl":
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		if aerr == nil && berr == nil {
			return ai == bi
		}
		return a == b
	case "q":
		return trimQValue(a) == trimQValue(b)
	}
	if caseSensitiveParamNames[lname] {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// trimQValue strips trailing zeros (and a trailing ".") from a qvalue's
// textual form, per spec §9's "avoid float comparison" design note: two
// qvalues are equal iff their trimmed strings are equal.
func trimQValue(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Equal implements spec §4.7: "|a|==|b| AND for every parameter name
// present in both, the values are equal under the parameter-specific case
// rule" — with order ignored. This is also used standalone wherever a
// parameter list must compare independent of insertion order.
func (p HeaderParameters) Equal(other HeaderParameters) bool {
	if len(p) != len(other) {
		return false
	}
	for _, kv := range p {
		ov, ok := other.Get(kv.Name)
		if !ok {
			return false
		}
		if !paramValueEqual(kv.Name, kv.Value.str(), ov) {
			return false
		}
	}
	return true
}

// sortedNormalizedKeys returns a deterministic projection for hashing,
// consistent with Equal (spec §9: "the hash must be derived from the same
// normalized projection used by eq, not from the raw bytes").
func (p HeaderParameters) sortedNormalizedKeys() []string {
	keys := make([]string, 0, len(p))
	for _, kv := range p {
		name := strings.ToLower(kv.Name)
		val := kv.Value.str()
		if !caseSensitiveParamNames[name] {
			val = strings.ToLower(val)
		}
		if name == "q" {
			val = trimQValue(val)
		}
		if name == "ttl" {
			if n, err := strconv.Atoi(val); err == nil {
				val = strconv.Itoa(n)
			}
		}
		keys = append(keys, name+"="+val)
	}
	sort.Strings(keys)
	return keys
}

func (p HeaderParameters) Hash() uint64 {
	return fnvHashStrings(p.sortedNormalizedKeys())
}

func fnvHashStrings(ss []string) uint64 {
	var h uint64 = 14695981039346656037
	for _, s := range ss {
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= 1099511628211
		}
		h ^= 0xa5
		h *= 1099511628211
	}
	return h
}
