// Package appinfo reports build and runtime information for health output
package appinfo

import (
	"os"
	"runtime/debug"
	"strings"
)

// Name is the service name reported by health checks
const Name = "socialfeed-comments"

// GetEnvironment returns the normalized deployment environment from GO_ENV
func GetEnvironment() string {
	switch env := strings.ToLower(strings.TrimSpace(os.Getenv("GO_ENV"))); env {
	case "", "dev", "development":
		return "development"
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return env
	}
}

// GetVersion returns APP_VERSION, else the module or VCS revision from build info
func GetVersion() string {
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "0.0.0-unknown"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			if len(setting.Value) > 12 {
				return setting.Value[:12]
			}
			return setting.Value
		}
	}
	return "0.0.0-unknown"
}
