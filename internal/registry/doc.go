// Package registry indexes a validated mapping specification by source
// context so the transformer can look up entity rules in constant time.
//
// An Index is immutable once built and may be shared by concurrent runs.
package registry
