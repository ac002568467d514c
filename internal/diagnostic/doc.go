// Package diagnostic provides coded warnings and notes about entities the
// aggregate builder accepted but did not use.
//
// The builder never fails on unexpected content. Instead every entity it
// drops is recorded here so callers can report what was skipped:
//   - Unknown entity types (info)
//   - Metadata or comments with no eligible parent (warning)
//   - Site options that carry no value (info)
package diagnostic
