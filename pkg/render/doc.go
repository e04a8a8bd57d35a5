// Package render turns a TeX template and one record into TeX source.
//
// Templates use text/template with TeX-friendly markers:
//
//	\VAR{.Name}               substitute a value
//	\VAR{field . "Full name"} substitute a key that is not an identifier
//	\BLOCK{if has . "Title"}  control flow; the newline after it is dropped
//	\#{a comment}             removed from the output
//	%- range split "," .Tags  a whole-line statement
//	%# a comment line         removed, newline included
//
// Every placeholder must resolve: a key absent from the record is an
// error, never an empty string. field, has and index take the record as
// their first argument; inside range it is $.
package render
