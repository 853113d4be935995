package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Tool is an external program some metadata readers rely on
type Tool struct {
	Name    string
	Purpose string
	Package string // package name in the common package managers
}

var (
	FFprobe  = Tool{Name: "ffprobe", Purpose: "video metadata for MTS and fallback containers", Package: "ffmpeg"}
	Exiftool = Tool{Name: "exiftool", Purpose: "still metadata via the exiftool reader", Package: "exiftool"}
)

// Tools lists every optional external dependency
var Tools = []Tool{FFprobe, Exiftool}

// LookupTool returns the absolute path of tool in PATH
func LookupTool(tool Tool) (string, error) {
	path, err := exec.LookPath(tool.Name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH. %s", tool.Name, getInstallationInstructions(tool))
	}
	return path, nil
}

// ValidateFFprobe checks that ffprobe is available in PATH
func ValidateFFprobe() error {
	_, err := LookupTool(FFprobe)
	return err
}

// ValidateExiftool checks that exiftool is available in PATH
func ValidateExiftool() error {
	_, err := LookupTool(Exiftool)
	return err
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions(tool Tool) string {
	switch runtime.GOOS {
	case "darwin":
		return fmt.Sprintf("Install with: brew install %s", tool.Package)
	case "linux":
		pkg := tool.Package
		if tool.Name == "exiftool" {
			pkg = "libimage-exiftool-perl"
		}
		return fmt.Sprintf("Install with: apt-get install %s (Ubuntu/Debian) or yum install %s (CentOS/RHEL)", pkg, tool.Package)
	case "windows":
		return fmt.Sprintf("Download %s and add it to PATH", tool.Name)
	default:
		return fmt.Sprintf("Download %s from its project page", tool.Name)
	}
}
