// Package gen synthesizes Go source files from a resolved plan.
//
// One file is generated per package that contains planned types. Each
// struct plan becomes a value-receiver Expunge method; each sum plan
// becomes a dispatch function plus an Expunge method per variant. Unless
// suppressed, every planned type also gets a String method that prints
// the sanitized copy, and types marked for slog get a LogValue method.
//
// Generated files are formatted with go/format before they are returned.
// A file that fails to format is written unformatted next to its intended
// location with an .unformatted suffix to aid debugging.
package gen
