// Package wxr assembles the entities of a WordPress eXtended RSS export into
// a nested Aggregate ready for import.
//
// # Pipeline
//
// A Builder drains an entity.Stream in one forward pass:
//
//	stream -> route each entity -> finalize post terms -> validate version
//
// Child entities (post meta, comments, comment meta, term meta) carry no
// usable reference to their parent. They are attached to the most recently
// appended parent of the right kind, so the builder keeps two cursors: the
// current post and the last term (category, tag or generic term, whichever
// came last).
//
// # Term shapes
//
// Categories and tags use the legacy shape: taxonomy and term_description
// are dropped. Generic terms keep every field. All three coerce term_id to
// an int.
//
// # Failure
//
// Build fails only when the stream reports an error or when the version
// marker collected over the whole document is missing or malformed. Every
// other anomaly is dropped and reported through Builder.Diagnostics.
package wxr
