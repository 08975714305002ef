package message

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Trail is the ordered list of node names a message has passed through.
// The zero value is a disabled trail: appending to it yields another disabled
// trail and it renders as "()".
type Trail struct {
	names   []string
	enabled bool
}

// NewTrail returns an enabled trail seeded with names.
func NewTrail(names ...string) Trail {
	return Trail{
		names:   append([]string{}, names...),
		enabled: true,
	}
}

// NoTrail returns a disabled trail.
func NoTrail() Trail {
	return Trail{}
}

func (t Trail) Enabled() bool {
	return t.enabled
}

func (t Trail) Len() int {
	return len(t.names)
}

// Names returns a copy of the recorded names: nil for a disabled trail and a
// non-nil, possibly empty, slice for an enabled one.
func (t Trail) Names() []string {
	if !t.enabled {
		return nil
	}
	return append([]string{}, t.names...)
}

// Append returns a new trail with name added. The receiver is never modified,
// so sibling branches of a fan-out each see only their own path.
func (t Trail) Append(name string) Trail {
	if !t.enabled {
		return t
	}

	names := make([]string, len(t.names)+1)
	copy(names, t.names)
	names[len(t.names)] = name

	return Trail{names: names, enabled: true}
}

func (t Trail) String() string {
	return "(" + strings.Join(t.names, ", ") + ")"
}

// Header encodes the trail for transport headers as a JSON array of names,
// so names may contain any character. A disabled trail encodes to the empty
// string.
func (t Trail) Header() string {
	if !t.enabled {
		return ""
	}
	data, _ := json.Marshal(t.Names())
	return string(data)
}

// ParseTrailHeader is the inverse of Trail.Header.
func ParseTrailHeader(s string) (Trail, error) {
	if s == "" {
		return NoTrail(), nil
	}

	var names []string
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return NoTrail(), fmt.Errorf("parse trail header: %w", err)
	}
	return NewTrail(names...), nil
}
