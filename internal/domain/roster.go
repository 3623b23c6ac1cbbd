package domain

import "strings"

// RosterSeparator joins volunteer names in the denormalized assigned field.
const RosterSeparator = ", "

// staleNoneToken is what older screens wrote into an emptied field.
const staleNoneToken = "None"

// ValidRosterName reports whether name survives a round trip through the
// stored field: it holds no comma, has no surrounding whitespace and is not
// the legacy placeholder. Names failing this cannot be told apart once joined.
func ValidRosterName(name string) bool {
	return name != "" &&
		name != staleNoneToken &&
		name == strings.TrimSpace(name) &&
		!strings.Contains(name, ",")
}

// Roster is the ordered list of volunteer display names stored on a task.
type Roster []string

// ParseRoster splits a denormalized field into names. Blank tokens and the
// legacy "None" placeholder are dropped, as are repeated names.
func ParseRoster(field *string) Roster {
	if field == nil {
		return nil
	}
	var r Roster
	for _, token := range strings.Split(*field, ",") {
		name := strings.TrimSpace(token)
		if name == "" || name == staleNoneToken {
			continue
		}
		r = r.With(name)
	}
	return r
}

// Contains reports whether name is on the roster by exact match.
func (r Roster) Contains(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}

// With returns the roster with name appended, unless it is already present.
func (r Roster) With(name string) Roster {
	if name == "" || r.Contains(name) {
		return r
	}
	out := make(Roster, len(r), len(r)+1)
	copy(out, r)
	return append(out, name)
}

// Without returns the roster with name removed. Other names keep their order.
func (r Roster) Without(name string) Roster {
	out := make(Roster, 0, len(r))
	for _, n := range r {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Field renders the roster for storage. An empty roster is NULL, never "".
func (r Roster) Field() *string {
	if len(r) == 0 {
		return nil
	}
	s := strings.Join(r, RosterSeparator)
	return &s
}

// SameField reports whether two stored field values are identical.
func SameField(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
