// Package diagnostic provides structured errors, warnings, and notes for the
// expunge generator.
//
// Every rule violation is reported here with the precise source position of
// the offending annotation; any error aborts generation for the annotated
// type, so no partially-valid output is ever written.
package diagnostic
