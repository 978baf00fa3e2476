// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the guidekit configuration.
//
// Configuration lives in a CUE file: a project-local guidekit.cue takes
// precedence over the per-user config.cue in the platform config directory,
// and an explicit --config flag overrides both. Files are validated against
// an embedded CUE schema before being merged into Viper, so schema violations
// surface with file/line context instead of as zero values downstream.
package config
