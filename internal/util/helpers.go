package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Timestamped генерирует имя файла с меткой времени
func Timestamped(name string) string {
	return timestampedAt(name, time.Now())
}

func timestampedAt(name string, now time.Time) string {
	ts := now.Format("20060102_150405")
	return fmt.Sprintf("%s__%s", ts, SafeName(name))
}

// SafeName strips directory components and separators from a client-supplied
// file name so it can be joined under a storage directory.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload.pdf"
	}
	return name
}

// TruncateRunes — безопасное усечение по рунам
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n])
}
