// Package wxrxml reads WordPress eXtended RSS documents and emits their
// content as entities in document order.
//
// Channel-level records (authors, categories, tags, terms, version and base
// URLs) become one entity each. An item becomes a post entity followed by
// its post meta, comments and comment meta, so every child entity follows
// the entity it belongs to. Term meta nested in a category, tag or term is
// emitted right after that term.
//
// The reader decodes one channel-level record at a time; memory use is
// bounded by the largest single item, not the document.
package wxrxml
