// Package errors provides structured, coded errors for the escape-api
// service. Every error carries a Code that the HTTP boundary maps to a
// status, a message, and optional metadata.
//
// Structural faults (unknown room, locked room, item not held) are
// *Error values with a stable code. Domain-negative outcomes (wrong
// solution, items that cannot combine) are ordinary result values and
// never flow through this package.
package errors
