package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origRead :=
		Version, GitCommit, GitBranch, BuildTime, readBuildInfo
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		readBuildInfo = origRead
	}
}

func fakeBuildInfo(settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.26.0", Settings: settings}, true
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime = "dev", "", "", ""
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.Short() != "dev" || info.String() != "dev" {
		t.Errorf("unexpected strings %q / %q", info.Short(), info.String())
	}
}

func TestGetLinkerValues(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime = "1.0.0", "abc1234", "main", "2024-01-15T10:30:00Z"
	readBuildInfo = fakeBuildInfo(debug.BuildSetting{Key: "vcs.revision", Value: "fffffffffffffff"})

	info := Get()
	if !info.IsRelease {
		t.Error("1.0.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("linker commit should win, got %q", info.GitCommit)
	}
	if info.GoVersion != "go1.26.0" {
		t.Errorf("expected go1.26.0, got %q", info.GoVersion)
	}
	if info.BuildDate.Year() != 2024 {
		t.Errorf("expected build year 2024, got %d", info.BuildDate.Year())
	}
	if got := info.String(); got != "1.0.0-abc1234 built 2024-01-15T10:30:00Z" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestGetBuildInfoFallback(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime = "1.2.0", "", "feature/json", ""
	readBuildInfo = fakeBuildInfo(
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
		debug.BuildSetting{Key: "vcs.time", Value: "2025-03-01T00:00:00Z"},
	)

	info := Get()
	if info.Short() != "1.2.0-0123456-dirty" {
		t.Errorf("unexpected short version %q", info.Short())
	}
	if !strings.Contains(info.String(), "(feature/json)") {
		t.Errorf("expected branch in %q", info.String())
	}
	if info.BuildDate.Year() != 2025 {
		t.Errorf("expected vcs.time build date, got %v", info.BuildDate)
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0-dirty"
	if Get().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestFields(t *testing.T) {
	f := Info{Version: "1.0.0", GitCommit: "abc", GoVersion: "go1.26.0"}.Fields()
	if f["version"] != "1.0.0" || f["git_commit"] != "abc" {
		t.Errorf("unexpected fields %v", f)
	}
}
