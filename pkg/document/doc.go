// Package document provides a generic, order-preserving value tree for
// loosely-typed YAML and JSON documents. Specification files are parsed into
// this representation before the indexer builds the typed model, so the
// dynamically-shaped input never leaks past the package boundary.
package document
