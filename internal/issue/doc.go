// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps, improving
// the user experience when a guide build step fails during CLI operations.
package issue
