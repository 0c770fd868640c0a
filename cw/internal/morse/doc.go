// Package morse maps dot/dash pattern strings to characters using an
// ITU-R M.1677 table with VE3NEA frequency weights, and resolves
// patterns with no direct match by splitting them into the
// highest-weighted pair of known sub-patterns.
package morse
