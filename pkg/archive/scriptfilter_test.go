// SPDX-License-Identifier: MPL-2.0

package archive

import "testing"

func TestIsScriptFile(t *testing.T) {
	tests := []struct {
		base string
		want bool
	}{
		{"build.gradle", true},
		{"settings.gradle", true},
		{"build.gradle.kts", true},
		{"settings.gradle.kts", true},
		{"gradle.properties", false},
		{"Build.gradle", false}, // matching is case-sensitive
		{"README.adoc", false},
	}
	for _, tt := range tests {
		if got := isScriptFile(tt.base); got != tt.want {
			t.Errorf("isScriptFile(%q) = %v, want %v", tt.base, got, tt.want)
		}
	}
}

func TestFilterDocTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "drops begin and end tag lines",
			content: "// tag::apply[]\nplugins { id 'java' }\n// end::apply[]\n",
			want:    "plugins { id 'java' }\n",
		},
		{
			name:    "marker anywhere in line drops the whole line",
			content: "dependencies { } // tag::deps[]\nimplementation 'x'\n",
			want:    "implementation 'x'\n",
		},
		{
			name:    "last line without newline gains one",
			content: "// tag::x[]\nfoo\n// end::x[]\nbar",
			want:    "foo\nbar\n",
		},
		{
			name:    "crlf endings normalized to lf",
			content: "plugins { }\r\n// tag::a[]\r\nrepositories { }\r\n",
			want:    "plugins { }\nrepositories { }\n",
		},
		{
			name:    "empty content stays empty",
			content: "",
			want:    "",
		},
		{
			name:    "content without markers unchanged apart from newline normalization",
			content: "rootProject.name = 'demo'\n",
			want:    "rootProject.name = 'demo'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(filterDocTags([]byte(tt.content))); got != tt.want {
				t.Errorf("filterDocTags() = %q, want %q", got, tt.want)
			}
		})
	}
}
