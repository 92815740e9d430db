// Package directive parses the expunge annotation vocabulary.
//
// Fields and variants are annotated with the `expunge` struct tag; containers
// (and variant structs) with `//expunge:` doc directives. Both carry the same
// comma-separated option list:
//
//	as=<expr>     literal replacement (single-quote values containing commas)
//	with=<func>   replacement function, called as f(member)
//	default       shorthand for as=<zero value of the member type>
//	ignore        leave the member untouched (fields/variants only)
//	all           treat every member as annotated (containers only)
//	zeroize       wipe the original before replacing (requires as/default)
//	slog          emit a sanitizing slog adapter (containers only)
//	allow_debug   keep the user's own String method (containers only)
//
// A bare marker (empty tag value, or a bare `//expunge:` on a variant) means
// "use the container defaults". Each parse produces at most one Options set
// or a ParseError pinpointing the violated rule and its source position.
package directive
