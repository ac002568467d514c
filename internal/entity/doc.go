// Package entity defines the flat, typed records emitted by an export
// document reader and the pull interface used to consume them.
//
// A reader yields entities strictly in document order: metadata and child
// entities always follow the entity they belong to. Consumers call Next
// until it returns io.EOF; any other error means the document could not be
// read and the stream must not be used further.
package entity
