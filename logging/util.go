package logging

import (
	"log/slog"
	"strings"
)

var levels = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

func LevelFromString(str *string) slog.Level {
	if str == nil {
		return slog.LevelInfo
	}
	if lvl, ok := levels[strings.ToUpper(*str)]; ok {
		return lvl
	}
	return slog.LevelInfo
}
