//go:build linux

package x11

import (
	"bufio"
	"strconv"
	"strings"
)

// scaleFromResources derives a scale factor from the Xft.dpi entry of an X
// resource database string. Values outside [0.5, 8] and missing entries
// yield 1.
func scaleFromResources(db string) float64 {
	sc := bufio.NewScanner(strings.NewReader(db))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 1
		}
		if s := dpi / 96; s >= 0.5 && s <= 8 {
			return s
		}
		return 1
	}
	return 1
}
