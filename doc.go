// Package refract converts MSON data structures into a Refract element
// tree and, from there, into a draft-04 JSON Schema document.
//
// The module is organized by conversion stage:
//
//   - [github.com/apib/refract/mson] — the input AST a caller (an MSON
//     parser) is expected to hand in
//   - [github.com/apib/refract/refract] — the Refract element model,
//     named-type registry, and Extend-merge semantics
//   - [github.com/apib/refract/lower] — MSON to Refract lowering
//   - [github.com/apib/refract/expand] — named-type and mixin expansion
//   - [github.com/apib/refract/jsonschema] — Refract to JSON Schema
//     generation
//   - [github.com/apib/refract/convert] — the end-to-end pipeline, sharing
//     one registry and one warning sink across a batch of data structures
//   - [github.com/apib/refract/warning] — the warning and abort-error
//     taxonomy every stage reports through
//
// Every stage is a pure, single-threaded value transformation: no I/O, no
// suspension points, no hidden configuration beyond [convert.Options].
package refract
