package imp

import (
	"bytes"
	"fmt"

	"github.com/benbjohnson/immutable"
)

// Store represents a path-scoped snapshot of symbolic variable values.
// Each variable name maps to the ordered sequence of its terms, one per step.
//
// A Store is never modified in place: Append returns a new snapshot that
// shares structure with the original. Snapshots may be read concurrently.
type Store struct {
	m *immutable.SortedMap // name -> *immutable.List of Term
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{m: immutable.NewSortedMap(&stringComparer{})}
}

// InitialStore returns a store holding a step-0 variable term for each name.
func InitialStore(names []string) *Store {
	s := NewStore()
	for _, name := range names {
		s = s.Append(name, NewVarTerm(name, 0))
	}
	return s
}

// Append returns a new store with t added to the end of name's sequence.
func (s *Store) Append(name string, t Term) *Store {
	assert(t != nil, "store: cannot append nil term: %s", name)
	l := s.list(name)
	if l == nil {
		l = immutable.NewList()
	}
	return &Store{m: s.m.Set(name, l.Append(t))}
}

// Lookup returns the term bound to name at step i.
func (s *Store) Lookup(name string, i int) (Term, error) {
	l := s.list(name)
	if l == nil {
		return nil, &UnboundVariableError{Name: name}
	} else if i < 0 || i >= l.Len() {
		return nil, &StepIndexOutOfRangeError{Name: name, Index: i, Len: l.Len()}
	}
	return l.Get(i).(Term), nil
}

// Has returns true if the store holds a sequence for name.
func (s *Store) Has(name string) bool {
	return s.list(name) != nil
}

// Len returns the number of steps recorded for name.
func (s *Store) Len(name string) int {
	if l := s.list(name); l != nil {
		return l.Len()
	}
	return 0
}

// Names returns all variable names in the store, sorted.
func (s *Store) Names() []string {
	a := make([]string, 0, s.m.Len())
	itr := s.m.Iterator()
	for !itr.Done() {
		k, _ := itr.Next()
		a = append(a, k.(string))
	}
	return a
}

func (s *Store) list(name string) *immutable.List {
	if v, ok := s.m.Get(name); ok {
		return v.(*immutable.List)
	}
	return nil
}

// String returns the contents of the store, one variable per line.
func (s *Store) String() string {
	var buf bytes.Buffer
	itr := s.m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		l := v.(*immutable.List)

		fmt.Fprintf(&buf, "%s:", k.(string))
		for i := 0; i < l.Len(); i++ {
			fmt.Fprintf(&buf, " %s", l.Get(i).(Term))
		}
		fmt.Fprintln(&buf, "")
	}
	return buf.String()
}

// stringComparer compares two strings. Implements immutable.Comparer.
type stringComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not a string.
func (c *stringComparer) Compare(a, b interface{}) int {
	return compareString(a.(string), b.(string))
}
