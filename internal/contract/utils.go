package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/netseries/schema"
)

// Null-model label constants.
const (
	AboveValue  = "Above null"
	BelowValue  = "Below null"
	WithinValue = "Within null"
)

// Color variables for console output.
var (
	AboveColor  = color.New(color.FgRed, color.Bold) // AboveColor marks a value above the null interval.
	BelowColor  = color.New(color.FgCyan, color.Bold)
	WithinColor = color.New(color.FgYellow)
	WarnColor   = color.New(color.FgYellow, color.Bold)
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetCILabel to determine the string, and then applies the appropriate color.
func GetColorLabel(r schema.MeasureRow) string {
	text := schema.GetCILabel(r)

	switch text {
	case AboveValue:
		return AboveColor.Sprint(text)
	case BelowValue:
		return BelowColor.Sprint(text)
	case WithinValue:
		return WithinColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// TruncateLabel truncates a column label to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return label
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
