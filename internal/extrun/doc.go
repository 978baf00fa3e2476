// SPDX-License-Identifier: MPL-2.0

// Package extrun runs configured external collaborators (renderer, link
// checker, publisher) through an embedded POSIX shell interpreter.
//
// Command lines come from configuration and run in-process via mvdan/sh, so
// behavior is identical across platforms and no /bin/sh is required. The
// runner injects GUIDEKIT_* environment variables describing the project
// layout so collaborator commands don't hardcode paths.
package extrun
