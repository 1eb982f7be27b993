// Package server is the HTTP transport boundary around the resolution
// engine. It normalizes inbound requests into engine descriptors, honors
// synthesized delays before writing, substitutes forced failures, and
// translates route and schema errors into HTTP statuses.
package server
