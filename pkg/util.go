package pkg

import (
	"math"
	"os"
	"strings"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return stat.IsDir() == isDir, nil
}

// Round2 rounds to 2 decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NameKey is the case-insensitive lookup key for user supplied names (foods, exercises).
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
