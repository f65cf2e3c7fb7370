// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to read
// plain text out of one family of file extensions.
//
// Extractors are registered with the Registry at startup; dispatch is by
// declared extension over a closed table.
package extractors
