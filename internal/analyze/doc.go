// Package analyze provides package loading and type shape extraction for the
// expunge generator.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build a
// canonical in-memory model of annotated types: structs with their fields,
// tags, and `//expunge:` directives, and sealed interfaces treated as sum
// types with their package-local variants.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/sum/basic/pointer/slice/map/...)
//   - FieldInfo: describes field name, type, tag, and source position
//
// Everything downstream (resolution, synthesis) works off this model and
// plain strings, so neither needs go/types at all.
package analyze
