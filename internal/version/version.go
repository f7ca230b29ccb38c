package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/ncmctl"

// buildVersion is set via -ldflags "-X pkt.systems/ncmctl/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running binary.
type Info struct {
	Version   string
	Module    string
	Revision  string
	Modified  bool
	GoVersion string
	Platform  string
}

// String renders a single line suitable for `ncmctl version`.
func (i Info) String() string {
	out := fmt.Sprintf("ncmctl %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		out += " rev " + rev
		if i.Modified {
			out += "+dirty"
		}
	}
	return out
}

// Get collects version details from the linker flag and build info.
func Get() Info {
	info, _ := debug.ReadBuildInfo()
	out := Info{
		Version:   currentFromBuildInfo(info, false),
		Module:    moduleFrom(info),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info != nil {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = setting.Value
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	return out
}

// Current returns the best available version string (without dirty suffix).
func Current() string {
	info, _ := debug.ReadBuildInfo()
	return currentFromBuildInfo(info, false)
}

// Module returns the module path from build info when available.
func Module() string {
	info, _ := debug.ReadBuildInfo()
	return moduleFrom(info)
}

func moduleFrom(info *debug.BuildInfo) string {
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			return path
		}
	}
	return defaultModule
}

func currentFromBuildInfo(info *debug.BuildInfo, includeDirty bool) string {
	if strings.TrimSpace(buildVersion) != "" {
		return normalizeVersion(buildVersion, includeDirty)
	}
	if info != nil {
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			return normalizeVersion(v, includeDirty)
		}
		if v := pseudoFromBuildInfo(info, includeDirty); v != "" {
			return v
		}
	}
	return "v0.0.0-unknown"
}

func normalizeVersion(v string, includeDirty bool) string {
	value := strings.TrimSpace(v)
	if includeDirty {
		return value
	}
	return strings.TrimSuffix(value, "+dirty")
}

func pseudoFromBuildInfo(info *debug.BuildInfo, includeDirty bool) string {
	if info == nil {
		return ""
	}
	var revision, vcsTime string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" || vcsTime == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, vcsTime)
	if err != nil {
		return ""
	}
	rev := revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	ver := "v0.0.0-" + parsed.UTC().Format("20060102150405") + "-" + rev
	if modified && includeDirty {
		ver += "+dirty"
	}
	return ver
}
