// Package spec implements the shared vocabulary used to specify agent,
// environment, optimizer and network configurations: field paths, the
// error classes reported when a document does not conform to its schema,
// and a path-tracking Decoder over YAML node trees.
//
// Each configurable package owns the decoding of its own tagged unions by
// way of a Decoder, so that every violation can be reported with the full
// path of the offending field.
package spec

import (
	"strconv"
	"strings"
)

// Path is a dotted field path into a configuration document, for
// example model.DiscreteC51DQN.trainer_param.qmin
type Path []string

// Root is the empty path, which refers to the document root
var Root Path

// Key returns a new Path extended by a mapping key
func (p Path) Key(key string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, key)
}

// Index returns a new Path extended by a sequence index
func (p Path) Index(i int) Path {
	if len(p) == 0 {
		return Path{"[" + strconv.Itoa(i) + "]"}
	}
	next := make(Path, len(p))
	copy(next, p)
	next[len(next)-1] += "[" + strconv.Itoa(i) + "]"
	return next
}

// String implements the fmt.Stringer interface
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	return strings.Join(p, ".")
}
