// SPDX-License-Identifier: MPL-2.0

// Package archive packages sample project trees into distribution zip
// archives.
//
// An archive is produced from one or more source roots, filtered by glob
// exclusion patterns. Directory entries are deduplicated across roots, Unix
// permission bits are preserved in each entry's external attributes, the
// configured readme file is flattened to a canonical top-level README entry,
// and Gradle build-script files are rewritten to strip documentation tag
// markers before being written.
//
// Packaging deliberately skips (with success) when the "main" source
// selection contains no files, so that samples without content for a given
// build dialect do not produce empty archives.
package archive
