package p2p

import (
	"log/slog"
	"strings"
)

const (
	errKey     = "err"
	commandKey = "cmd"
)

func slogUpperString(key, val string) slog.Attr {
	return slog.String(key, strings.ToUpper(val))
}

const slogLvlTrace slog.Level = slog.LevelDebug - 4
