package downloader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameRunes = 100
	// Leaves room for "_<unix>.<ext>" under the 255 byte NAME_MAX.
	maxNameBytes = 200
)

// SanitizeName makes a display name safe to use as a single path element.
// Returns "" when nothing usable is left.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r), unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	clean := strings.TrimSpace(b.String())
	clean = strings.TrimLeft(clean, ".")
	clean = strings.TrimSpace(clean)

	if runes := []rune(clean); len(runes) > maxNameRunes {
		clean = strings.TrimSpace(string(runes[:maxNameRunes]))
	}
	if len(clean) > maxNameBytes {
		clean = strings.TrimSpace(truncateBytes(clean, maxNameBytes))
	}
	if strings.Trim(clean, "_") == "" {
		return ""
	}
	return clean
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func buildFilename(name string, ts int64, ext string) string {
	base := strconv.FormatInt(ts, 10)
	if name != "" {
		base = name + "_" + base
	}
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// reserveFilename creates an empty <name>_<unix>.<ext> (or <unix>.<ext>) in dir,
// bumping the timestamp until the name is free. The caller owns the file.
func reserveFilename(dir, displayName string, now time.Time, ext string) (string, error) {
	name := SanitizeName(displayName)
	ts := now.Unix()
	for {
		filename := buildFilename(name, ts, ext)
		f, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return filename, f.Close()
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		ts++
	}
}
