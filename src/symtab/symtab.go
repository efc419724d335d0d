// Package symtab implements the Cell compiler's symbol table: spec.md
// section 4.3 calls for a flat mapping name -> symbol in a single global
// scope, since the source language has no nested scoping at all (block
// scoping is deliberately flat).
package symtab

import (
	"fmt"

	"cellc/src/irb"
)

// Symbol binds a declared identifier to its IR storage slot. ElemKind and
// Length record enough of the declared type for the IR generator to choose
// between a plain load/store, a vector lane insert/extract or a GEP without
// re-deriving it from the storage slot's pointee type, which irb's Type
// interface does not expose.
type Symbol struct {
	Name     string
	Storage  irb.Value
	ElemKind irb.TypeKind // KindInt, KindFloat or KindVector.
	Length   int          // element count if declared with an array specifier, else 0.
}

// Table is the single, flat, global scope the IR generator declares and
// resolves identifiers in. Its lifetime matches the IR generator's: created
// when the generator is constructed, dropped with it.
type Table struct {
	entries map[string]*Symbol
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[string]*Symbol)}
}

// Declare registers name with the given storage slot. It fails with a
// "variable redefinition" error if name is already present; the source
// language has no shadowing.
func (t *Table) Declare(name string, storage irb.Value, elemKind irb.TypeKind, length int) (*Symbol, error) {
	if _, ok := t.entries[name]; ok {
		return nil, fmt.Errorf("variable redefinition: %q", name)
	}
	s := &Symbol{Name: name, Storage: storage, ElemKind: elemKind, Length: length}
	t.entries[name] = s
	return s, nil
}

// Lookup returns the symbol bound to name, or nil if none exists.
func (t *Table) Lookup(name string) *Symbol {
	return t.entries[name]
}
