// Package spec builds the typed, immutable specification model consumed by
// the resolution engine. The indexer walks a generic document tree once at
// startup; the resulting Document is read-only and safe for unsynchronized
// concurrent reads.
package spec
