// Package record provides Record, an insertion-ordered mapping of field
// names to values.
//
// Export documents are flat lists of named fields whose order carries
// meaning for humans reading a dump, so every payload that flows from the
// entity stream into the aggregate is kept as a Record rather than a Go map.
// Records encode to JSON and YAML objects with their keys in insertion order.
//
// Values are expected to be one of:
//   - string (most fields as they appear in the document)
//   - int (coerced identifiers such as term_id)
//   - []Record (nested lists such as inline post terms)
//   - Record
package record
