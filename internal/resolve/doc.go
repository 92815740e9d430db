// Package resolve merges parsed annotations into the effective per-member
// directive and lowers it to a plan of actions.
//
// Precedence, in order:
//   - a member's own as/with/default always wins over the container's
//   - a member declaring neither inherits the container's replacement; if
//     the container has none either, the member recurses into its own
//     Expunge implementation
//   - ignore and zeroize are sticky: they OR together down the tree
//   - `all` on a container treats every member as annotated with the
//     container's merged directive; an explicit ignore still excludes a
//     member
//   - members without any annotation under a container without `all` get no
//     action at all and are copied through untouched
//
// The resulting plan is the static table consumed by synthesis: one action
// per member out of {Keep, Skip, Literal, Call, Recurse}. All validation
// happens here or earlier; synthesis never rejects anything.
package resolve
