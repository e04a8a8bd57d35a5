// Package registry provides a generic, type-safe registry keyed by
// name. Record formats register their source constructors here from
// init() functions.
package registry
