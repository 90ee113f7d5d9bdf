package model

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Nil and empty collections compare equal: an omitted list and an empty list
// describe the same document.
var equalOptions = cmp.Options{cmpopts.EquateEmpty()}

// Equal reports whether two documents are structurally identical.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	return cmp.Equal(a, b, equalOptions)
}

// EqualValue reports whether two generic subtrees are structurally identical.
func EqualValue(a, b any) bool {
	return cmp.Equal(a, b, equalOptions)
}

// EqualServers reports whether two server lists are identical in order and
// content.
func EqualServers(a, b []Server) bool {
	return cmp.Equal(a, b, equalOptions)
}

// EqualTag compares tag metadata: description, external docs and extensions.
func EqualTag(a, b Tag) bool {
	return cmp.Equal(a, b, equalOptions)
}

// Diff renders a human readable difference between two documents. It is used
// in logs and test failures.
func Diff(a, b *Document) string {
	return cmp.Diff(a, b, equalOptions)
}
