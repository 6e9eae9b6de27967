package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var logOnce sync.Once

// setupLogging installs the default slog handler. Console output goes
// through tint so every decision reads as one line; LOG_FORMAT=json switches
// to machine-readable output.
func setupLogging(w io.Writer, levelStr, format string) error {
	var setupErr error
	logOnce.Do(func() {
		logLevel := slog.LevelInfo
		if levelStr != "" {
			if err := logLevel.UnmarshalText([]byte(levelStr)); err != nil {
				setupErr = fmt.Errorf("invalid log level: %s", levelStr)
				return
			}
		}

		if strings.EqualFold(format, "json") {
			slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})))
			return
		}

		// Get module name dynamically from runtime build info
		modulePrefix := getModulePrefix()

		replacer := func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = cleanSourcePath(source.File, modulePrefix)
				}
			}
			if err, ok := a.Value.Any().(error); ok {
				aErr := tint.Err(err)
				aErr.Key = a.Key
				return aErr
			}
			return a
		}

		handler := tint.NewHandler(w, &tint.Options{
			Level:       logLevel,
			TimeFormat:  time.TimeOnly,
			ReplaceAttr: replacer,
			AddSource:   logLevel == slog.LevelDebug,
		})

		slog.SetDefault(slog.New(handler))
		slog.Debug("debug logging enabled")
	})
	return setupErr
}

// getModulePrefix extracts the module path from runtime build info
// and returns a prefix that can be used to clean source paths
func getModulePrefix() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Path == "" {
		if wd, err := os.Getwd(); err == nil {
			return "/" + filepath.Base(wd) + "/"
		}
		return "/prjimages/"
	}

	// e.g., "github.com/loganlanou/prjimages" -> "/prjimages/"
	parts := strings.Split(info.Main.Path, "/")
	return "/" + parts[len(parts)-1] + "/"
}

// cleanSourcePath removes the module prefix from the file path to make logs more readable
func cleanSourcePath(filePath, modulePrefix string) string {
	parts := strings.Split(filePath, modulePrefix)
	if len(parts) == 2 {
		return parts[1]
	}

	cleaned := filePath
	if idx := strings.LastIndex(cleaned, "/go/src/"); idx != -1 {
		cleaned = cleaned[idx+8:]
	} else if idx := strings.LastIndex(cleaned, "/src/"); idx != -1 {
		cleaned = cleaned[idx+5:]
	}

	return cleaned
}
