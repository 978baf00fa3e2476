// SPDX-License-Identifier: MPL-2.0

// Package discovery handles finding samples under the configured samples
// directory.
//
// A sample is an immediate subdirectory that contains at least one script
// dialect directory (groovy/ or kotlin/), optionally a common/ directory
// shared by both dialects, and optionally a sample.cue metadata file.
// Discovery never fails on a malformed sample; problems are returned as
// structured diagnostics so the CLI layer controls rendering.
package discovery
