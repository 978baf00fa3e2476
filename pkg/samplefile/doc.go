// SPDX-License-Identifier: MPL-2.0

// Package samplefile loads per-sample metadata from sample.cue files.
//
// A sample may carry an optional sample.cue at its root describing how it is
// presented and packaged: a display title, a description, extra exclusion
// patterns, an overridden readme file name, and free-form tags. The file is
// validated against an embedded CUE schema before use; a sample without a
// sample.cue falls back entirely to tool-level defaults.
package samplefile
