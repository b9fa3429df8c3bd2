// Package sysfs provides an abstraction over file system operations to allow for easier testing.
package sysfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileSystem abstracts the file operations used against /sys/class/power_supply.
// Tests can replace `FS` with a fake implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Glob(pattern string) ([]string, error)
}

type defaultFS struct{}

func (defaultFS) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }
func (defaultFS) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

// FS is the package-level FileSystem used by code accessing sysfs. Tests may replace it.
var FS FileSystem = defaultFS{}

// ReadString returns the trimmed content of a sysfs attribute.
func ReadString(path string) (string, error) {
	data, err := FS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadInt parses a sysfs attribute holding a decimal integer.
func ReadInt(path string) (int, error) {
	s, err := ReadString(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// ReadBool reads a 0/1 attribute such as "present" or "online".
func ReadBool(path string) (bool, error) {
	v, err := ReadInt(path)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
