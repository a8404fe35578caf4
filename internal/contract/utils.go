package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/seunfola/repohealth/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // healthy, nothing to do
	GoodColor      = color.New(color.FgCyan)              // informational / low-priority signal
	ModerateColor  = color.New(color.FgYellow)            // standard caution, not bold
	PoorColor      = color.New(color.FgRed, color.Bold)   // standard danger
)

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(label schema.HealthLabel) string {
	switch label {
	case schema.ExcellentHealth:
		return ExcellentColor.Sprint(string(label))
	case schema.GoodHealth:
		return GoodColor.Sprint(string(label))
	case schema.ModerateHealth:
		return ModerateColor.Sprint(string(label))
	default: // "Poor"
		return PoorColor.Sprint(string(label))
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr, keeping stdout clean for output.
func LogInfo(msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for record storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repohealth.db"
	}
	return filepath.Join(homeDir, ".repohealth.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// RepoID builds the canonical storage key for a repository.
func RepoID(owner, repo string) string {
	return owner + "/" + repo
}
