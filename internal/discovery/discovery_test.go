// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"guidekit-cli/internal/config"
)

// newTestDiscovery builds a Discovery rooted at a temp samples dir and
// returns both the Discovery and the samples dir path.
func newTestDiscovery(t *testing.T) (*Discovery, string) {
	t.Helper()
	samplesDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SamplesDir = config.DirPath(samplesDir)
	return New(cfg), samplesDir
}

// mkSample creates a sample directory with the given subdirectories.
func mkSample(t *testing.T, samplesDir, name string, subdirs ...string) string {
	t.Helper()
	path := filepath.Join(samplesDir, name)
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(path, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestDiscoverAllFindsSamplesSorted(t *testing.T) {
	d, samplesDir := newTestDiscovery(t)
	mkSample(t, samplesDir, "zeta", "groovy")
	mkSample(t, samplesDir, "alpha", "groovy", "kotlin", "common")

	res, err := d.DiscoverAll()
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(res.Samples) != 2 {
		t.Fatalf("Samples = %d, want 2", len(res.Samples))
	}
	if res.Samples[0].Name != "alpha" || res.Samples[1].Name != "zeta" {
		t.Errorf("order = [%s, %s], want [alpha, zeta]", res.Samples[0].Name, res.Samples[1].Name)
	}

	alpha := res.Samples[0]
	if len(alpha.Dialects) != 2 {
		t.Errorf("alpha dialects = %v, want both", alpha.Dialects)
	}
	if !alpha.HasCommon {
		t.Error("alpha should have a common dir")
	}

	zeta := res.Samples[1]
	if !zeta.HasDialect(DialectGroovy) || zeta.HasDialect(DialectKotlin) {
		t.Errorf("zeta dialects = %v, want groovy only", zeta.Dialects)
	}
	if zeta.HasCommon {
		t.Error("zeta should not have a common dir")
	}
}

func TestDiscoverAllMissingSamplesDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SamplesDir = config.DirPath(filepath.Join(t.TempDir(), "does-not-exist"))

	res, err := New(cfg).DiscoverAll()
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(res.Samples) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("expected empty result, got %d samples, %d diagnostics",
			len(res.Samples), len(res.Diagnostics))
	}
}

func TestDiscoverAllSkipsNonSampleDirs(t *testing.T) {
	d, samplesDir := newTestDiscovery(t)
	mkSample(t, samplesDir, "real", "kotlin")
	mkSample(t, samplesDir, "stray", "docs")
	mkSample(t, samplesDir, ".hidden", "groovy")
	if err := os.WriteFile(filepath.Join(samplesDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := d.DiscoverAll()
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(res.Samples) != 1 || res.Samples[0].Name != "real" {
		t.Fatalf("Samples = %+v, want only real", res.Samples)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %+v, want one for stray", res.Diagnostics)
	}
	diag := res.Diagnostics[0]
	if diag.Code != "no_dialect_dirs" || diag.Severity != SeverityWarning {
		t.Errorf("diagnostic = %+v", diag)
	}
}

func TestDiscoverAllLoadsMetadata(t *testing.T) {
	d, samplesDir := newTestDiscovery(t)
	path := mkSample(t, samplesDir, "building-java", "groovy")
	meta := `title: "Building Java Projects"
readme: "GUIDE.adoc"
excludes: ["**/out/**"]`
	if err := os.WriteFile(filepath.Join(path, "sample.cue"), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := d.Get("building-java")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Meta.Title != "Building Java Projects" {
		t.Errorf("Title = %q", s.Meta.Title)
	}
	if got := d.ReadmeName(s); got != "GUIDE.adoc" {
		t.Errorf("ReadmeName = %q, want metadata override", got)
	}

	excludes := d.Excludes(s)
	found := false
	for _, p := range excludes {
		if p == "**/out/**" {
			found = true
		}
	}
	if !found {
		t.Errorf("Excludes = %v, want to include metadata pattern", excludes)
	}
	if len(excludes) <= 1 {
		t.Errorf("Excludes = %v, want tool-level patterns too", excludes)
	}
}

func TestDiscoverAllMalformedMetadataDegrades(t *testing.T) {
	d, samplesDir := newTestDiscovery(t)
	path := mkSample(t, samplesDir, "broken-meta", "groovy")
	if err := os.WriteFile(filepath.Join(path, "sample.cue"), []byte(`title: 42`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := d.DiscoverAll()
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("Samples = %d, want sample kept despite bad metadata", len(res.Samples))
	}
	if res.Samples[0].Meta.Title != "broken-meta" {
		t.Errorf("Title = %q, want directory-name fallback", res.Samples[0].Meta.Title)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != "metadata_parse_skipped" {
		t.Errorf("Diagnostics = %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].Cause == nil {
		t.Error("diagnostic should carry the parse error")
	}
}

func TestGetNotFound(t *testing.T) {
	d, samplesDir := newTestDiscovery(t)
	mkSample(t, samplesDir, "exists", "groovy")

	_, err := d.Get("missing")
	if err == nil {
		t.Fatal("expected error")
	}
	var notFound *SampleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error %v is not *SampleNotFoundError", err)
	}
	if notFound.Name != "missing" {
		t.Errorf("Name = %q", notFound.Name)
	}
}

func TestReadmeNameDefaultsToConfig(t *testing.T) {
	d, samplesDir := newTestDiscovery(t)
	mkSample(t, samplesDir, "plain", "kotlin")

	s, err := d.Get("plain")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := d.ReadmeName(s); got != "README.adoc" {
		t.Errorf("ReadmeName = %q, want config default", got)
	}
}

func TestArchiveFileName(t *testing.T) {
	s := &Sample{Name: "building-java"}
	if got := s.ArchiveFileName(DialectKotlin); got != "building-java-kotlin.zip" {
		t.Errorf("ArchiveFileName = %q", got)
	}
}
