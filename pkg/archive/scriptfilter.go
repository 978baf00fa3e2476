// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bufio"
	"bytes"
)

// Documentation tag markers used by the docs tooling to delimit named
// excerpt regions inside build scripts. Lines carrying them must not leak
// into distributed samples.
const (
	beginTagMarker = "// tag::"
	endTagMarker   = "// end::"
)

// scriptFileNames are the build-script base names whose content is rewritten
// before archiving, covering both supported Gradle script dialects.
var scriptFileNames = map[string]struct{}{
	"build.gradle":        {},
	"settings.gradle":     {},
	"build.gradle.kts":    {},
	"settings.gradle.kts": {},
}

// isScriptFile reports whether base is one of the recognized build-script
// file names.
func isScriptFile(base string) bool {
	_, ok := scriptFileNames[base]
	return ok
}

// filterDocTags drops every line containing a documentation begin or end tag
// marker. Remaining lines are preserved in order, each terminated by a
// single '\n' regardless of the original line ending.
func filterDocTags(content []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(content))

	sc := bufio.NewScanner(bytes.NewReader(content))
	// Build scripts are small, but a generated one may carry long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.Contains(line, []byte(beginTagMarker)) || bytes.Contains(line, []byte(endTagMarker)) {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
