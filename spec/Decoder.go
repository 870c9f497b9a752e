package spec

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decoder walks a YAML node tree, keeping track of the path of each
// node it visits. A Decoder never stops at the first violation: all
// violations are collected and returned together by Err so that a user
// can fix a document in a single pass.
type Decoder struct {
	errs   []error
	failed []Path // Paths of values that could not be decoded
}

// NewDecoder returns a new Decoder with no recorded violations
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Report records errs as violations of the document being decoded. The
// path of each *ValidationError and *SchemaError is marked as failed to
// decode.
func (d *Decoder) Report(errs ...error) {
	for _, err := range errs {
		switch e := err.(type) {
		case nil:
			continue
		case *ValidationError:
			d.failed = append(d.failed, e.Path)
		case *SchemaError:
			d.failed = append(d.failed, e.Path)
		}
		d.errs = append(d.errs, err)
	}
}

// Check records the Violations returned by a Validate method, anchoring
// each at p. A violation is dropped if its field, or a field it depends
// on, overlaps a value that failed to decode: that field holds a
// placeholder, not the document's value.
func (d *Decoder) Check(p Path, err error) {
	for _, v := range Collect(err) {
		if d.touchesFailed(p, v) {
			continue
		}
		d.errs = append(d.errs, Anchor(p, v)...)
	}
}

func (d *Decoder) touchesFailed(p Path, v *Violation) bool {
	fields := append([]Path{v.Field}, v.Depends...)
	for _, field := range fields {
		full := append(append(Path{}, p...), field...)
		for _, f := range d.failed {
			if overlaps(full, f) {
				return true
			}
		}
	}
	return false
}

// overlaps returns whether one of a and b is the other or lies inside it
func overlaps(a, b Path) bool {
	sa, sb := strings.Join(a, "."), strings.Join(b, ".")
	return within(sa, sb) || within(sb, sa)
}

func within(inner, outer string) bool {
	if outer == "" || inner == outer {
		return true
	}
	return strings.HasPrefix(inner, outer+".") ||
		strings.HasPrefix(inner, outer+"[")
}

// Failed returns whether any violation has been recorded
func (d *Decoder) Failed() bool {
	return len(d.errs) > 0
}

// Err returns all recorded violations joined into a single error, or
// nil if there were none. Each joined error is a *ValidationError or a
// *SchemaError, so callers may use errors.As on the result.
func (d *Decoder) Err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return errors.Join(d.errs...)
}

// resolve follows document and alias nodes to the node holding a value
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return fmt.Sprintf("%q", n.Value)
	}
	return "an unknown node"
}

// Mapping is a YAML mapping node being decoded at some Path. Each key
// read from the Mapping is marked as used, and Done reports any key
// that was never read.
type Mapping struct {
	d       *Decoder
	path    Path
	keys    []string
	values  map[string]*yaml.Node
	used    map[string]bool
	invalid bool // Node was present but not a mapping
}

// Mapping returns n as a Mapping at path p. If n is not a mapping, a
// violation is recorded and an empty Mapping is returned whose required
// fields will not be reported missing.
func (d *Decoder) Mapping(n *yaml.Node, p Path) *Mapping {
	m := &Mapping{
		d:      d,
		path:   p,
		values: make(map[string]*yaml.Node),
		used:   make(map[string]bool),
	}

	n = resolve(n)
	if isNull(n) {
		return m
	}
	if n.Kind != yaml.MappingNode {
		d.Report(Invalid(p, "expected a mapping, got %v", describe(n)))
		m.invalid = true
		return m
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, dup := m.values[key]; dup {
			d.Report(Invalid(p.Key(key), "duplicate key"))
			continue
		}
		m.keys = append(m.keys, key)
		m.values[key] = n.Content[i+1]
	}
	return m
}

// Path returns the path of the Mapping
func (m *Mapping) Path() Path {
	return m.path
}

// Keys returns the keys of the Mapping in document order
func (m *Mapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Has returns whether key is present with a non-null value
func (m *Mapping) Has(key string) bool {
	return !isNull(resolve(m.values[key]))
}

// node returns the value at key, marking key as used. If the key is
// absent or null, nil is returned and, if required, a violation is
// recorded.
func (m *Mapping) node(key string, required bool) *yaml.Node {
	m.used[key] = true
	n := resolve(m.values[key])
	if isNull(n) {
		if required && !m.invalid {
			m.d.Report(Invalid(m.path.Key(key), "missing required field"))
		}
		return nil
	}
	return n
}

// Done records a violation for each key of the Mapping that was never
// read by the caller.
func (m *Mapping) Done() {
	for _, key := range m.keys {
		if !m.used[key] {
			m.d.Report(Invalid(m.path.Key(key), "unknown field"))
		}
	}
}

// scalar decoding

func (d *Decoder) float(n *yaml.Node, p Path) (float64, bool) {
	if n.Kind != yaml.ScalarNode {
		d.Report(Invalid(p, "expected a number, got %v", describe(n)))
		return 0, false
	}

	switch n.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			d.Report(Invalid(p, "expected a number, got %q", n.Value))
			return 0, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			d.Report(Invalid(p, "expected a finite number, got %q", n.Value))
			return 0, false
		}
		return f, true
	}

	d.Report(Invalid(p, "expected a number, got %q", n.Value))
	return 0, false
}

func (d *Decoder) int(n *yaml.Node, p Path) (int, bool) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		d.Report(Invalid(p, "expected an integer, got %v", describe(n)))
		return 0, false
	}

	var i int
	if err := n.Decode(&i); err != nil {
		d.Report(Invalid(p, "expected an integer, got %q", n.Value))
		return 0, false
	}
	return i, true
}

func (d *Decoder) bool(n *yaml.Node, p Path) (bool, bool) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		d.Report(Invalid(p, "expected a boolean, got %v", describe(n)))
		return false, false
	}

	var b bool
	if err := n.Decode(&b); err != nil {
		d.Report(Invalid(p, "expected a boolean, got %q", n.Value))
		return false, false
	}
	return b, true
}

func (d *Decoder) string(n *yaml.Node, p Path) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		d.Report(Invalid(p, "expected a string, got %v", describe(n)))
		return "", false
	}
	return n.Value, true
}

// sequence returns the items of a sequence node, recording a violation
// if n is not a sequence.
func (d *Decoder) sequence(n *yaml.Node, p Path) ([]*yaml.Node, bool) {
	if n.Kind != yaml.SequenceNode {
		d.Report(Invalid(p, "expected a sequence, got %v", describe(n)))
		return nil, false
	}

	items := make([]*yaml.Node, len(n.Content))
	for i, item := range n.Content {
		items[i] = resolve(item)
		if items[i] == nil {
			items[i] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
		}
	}
	return items, true
}

// Float returns the float at key, or def if key is absent
func (m *Mapping) Float(key string, def float64) float64 {
	if n := m.node(key, false); n != nil {
		if f, ok := m.d.float(n, m.path.Key(key)); ok {
			return f
		}
	}
	return def
}

// RequireFloat returns the float at key, recording a violation if
// key is absent
func (m *Mapping) RequireFloat(key string) float64 {
	if n := m.node(key, true); n != nil {
		f, _ := m.d.float(n, m.path.Key(key))
		return f
	}
	return 0
}

// Int returns the integer at key, or def if key is absent
func (m *Mapping) Int(key string, def int) int {
	if n := m.node(key, false); n != nil {
		if i, ok := m.d.int(n, m.path.Key(key)); ok {
			return i
		}
	}
	return def
}

// RequireInt returns the integer at key, recording a violation if
// key is absent
func (m *Mapping) RequireInt(key string) int {
	if n := m.node(key, true); n != nil {
		i, _ := m.d.int(n, m.path.Key(key))
		return i
	}
	return 0
}

// OptionalInt returns the integer at key, or nil if key is absent
func (m *Mapping) OptionalInt(key string) *int {
	if n := m.node(key, false); n != nil {
		if i, ok := m.d.int(n, m.path.Key(key)); ok {
			return &i
		}
	}
	return nil
}

// Bool returns the boolean at key, or def if key is absent
func (m *Mapping) Bool(key string, def bool) bool {
	if n := m.node(key, false); n != nil {
		if b, ok := m.d.bool(n, m.path.Key(key)); ok {
			return b
		}
	}
	return def
}

// String returns the string at key, or def if key is absent
func (m *Mapping) String(key string, def string) string {
	if n := m.node(key, false); n != nil {
		if s, ok := m.d.string(n, m.path.Key(key)); ok {
			return s
		}
	}
	return def
}

// RequireString returns the string at key, recording a violation if
// key is absent
func (m *Mapping) RequireString(key string) string {
	if n := m.node(key, true); n != nil {
		s, _ := m.d.string(n, m.path.Key(key))
		return s
	}
	return ""
}

// Floats returns the sequence of floats at key, or def if key is absent
func (m *Mapping) Floats(key string, def []float64) []float64 {
	n := m.node(key, false)
	if n == nil {
		return append([]float64(nil), def...)
	}
	p := m.path.Key(key)
	items, ok := m.d.sequence(n, p)
	if !ok {
		return append([]float64(nil), def...)
	}

	out := make([]float64, len(items))
	for i, item := range items {
		out[i], _ = m.d.float(item, p.Index(i))
	}
	return out
}

// RequireInts returns the sequence of integers at key, recording a
// violation if key is absent
func (m *Mapping) RequireInts(key string) []int {
	n := m.node(key, true)
	if n == nil {
		return nil
	}
	p := m.path.Key(key)
	items, ok := m.d.sequence(n, p)
	if !ok {
		return nil
	}

	out := make([]int, len(items))
	for i, item := range items {
		out[i], _ = m.d.int(item, p.Index(i))
	}
	return out
}

// RequireStrings returns the sequence of strings at key, recording a
// violation if key is absent
func (m *Mapping) RequireStrings(key string) []string {
	n := m.node(key, true)
	if n == nil {
		return nil
	}
	p := m.path.Key(key)
	items, ok := m.d.sequence(n, p)
	if !ok {
		return nil
	}

	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = m.d.string(item, p.Index(i))
	}
	return out
}

// Map returns the nested mapping at key. An absent key returns an empty
// Mapping so that all of its fields take their defaults. The nested
// mapping of an invalid Mapping is invalid too, so that none of its
// fields are reported missing.
func (m *Mapping) Map(key string) *Mapping {
	n := m.node(key, false)
	child := m.d.Mapping(n, m.path.Key(key))
	child.invalid = child.invalid || m.invalid
	return child
}

// Variant resolves the tagged variant at key: a single-key mapping whose
// key names the selected variant and whose value holds the variant's
// parameters. The allowed argument lists the variant names legal at key.
//
// A *SchemaError is recorded and ok is false if key is absent, is not a
// mapping, or does not select exactly one allowed variant.
func (m *Mapping) Variant(key string, allowed []string) (name string,
	body *yaml.Node, p Path, ok bool) {
	p = m.path.Key(key)
	n := m.node(key, false)
	if n == nil {
		if !m.invalid {
			m.d.Report(&SchemaError{
				Path:    p,
				Reason:  "missing required variant selection",
				Allowed: allowed,
			})
		}
		return "", nil, p, false
	}
	return m.d.Variant(n, p, allowed)
}

// Variant resolves the tagged variant held by n at path p. See
// Mapping.Variant.
func (d *Decoder) Variant(n *yaml.Node, p Path, allowed []string) (name string,
	body *yaml.Node, variantPath Path, ok bool) {
	n = resolve(n)
	if isNull(n) {
		d.Report(&SchemaError{
			Path:    p,
			Reason:  "missing required variant selection",
			Allowed: allowed,
		})
		return "", nil, p, false
	}
	if n.Kind != yaml.MappingNode {
		d.Report(&SchemaError{
			Path:    p,
			Reason:  fmt.Sprintf("variant selection must be a mapping, got %v", describe(n)),
			Allowed: allowed,
		})
		return "", nil, p, false
	}

	switch count := len(n.Content) / 2; {
	case count == 0:
		d.Report(&SchemaError{
			Path:    p,
			Reason:  "no variant selected",
			Allowed: allowed,
		})
		return "", nil, p, false

	case count > 1:
		selected := make([]string, 0, count)
		for i := 0; i+1 < len(n.Content); i += 2 {
			selected = append(selected, n.Content[i].Value)
		}
		d.Report(&SchemaError{
			Path: p,
			Reason: fmt.Sprintf("ambiguous variant selection [%v]",
				strings.Join(selected, ", ")),
			Allowed: allowed,
		})
		return "", nil, p, false
	}

	name = n.Content[0].Value
	for _, a := range allowed {
		if a == name {
			return name, n.Content[1], p.Key(name), true
		}
	}

	d.Report(&SchemaError{
		Path:    p,
		Reason:  fmt.Sprintf("unknown variant %q", name),
		Allowed: allowed,
	})
	return "", nil, p, false
}
