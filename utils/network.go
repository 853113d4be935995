package utils

import (
	"path/filepath"
	"strings"
)

// MountKind is a rough classification of where a path lives
type MountKind int

const (
	MountLocal MountKind = iota
	MountRemovable
	MountNetwork
)

func (k MountKind) String() string {
	switch k {
	case MountRemovable:
		return "removable"
	case MountNetwork:
		return "network"
	default:
		return "local"
	}
}

// ClassifyMount guesses from the path alone whether it is a network share,
// a removable volume such as a memory card, or a local directory
func ClassifyMount(filePath string) MountKind {
	// Check Windows UNC paths first, before converting to absolute path
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, "\\\\") {
		return MountNetwork
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return MountLocal
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range []string{"nfs", "cifs", "smb", "webdav", "sftp"} {
		if strings.Contains(lowerPath, indicator) {
			return MountNetwork
		}
	}
	if strings.HasPrefix(absPath, "/mnt/") {
		return MountNetwork
	}

	// Camera cards are auto-mounted here
	for _, prefix := range []string{"/media/", "/run/media/", "/Volumes/"} {
		if strings.HasPrefix(absPath, prefix) {
			return MountRemovable
		}
	}

	return MountLocal
}
