package outwriter

import (
	"os"

	"github.com/huangsam/netseries/internal/contract"
	"golang.org/x/term"
)

// Bounds for keyed measure column labels.
const (
	minKeyWidth = 6
	maxKeyWidth = 24
)

// getTerminalWidth returns the width override, the detected terminal width or 80.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	// Get terminal width
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80
	}
	return detectedWidth
}

// GetMaxTableKeyWidth calculates the label width for each keyed measure column
// based on terminal width and how many key columns share the remaining space.
func GetMaxTableKeyWidth(cfg *contract.Config, keyColumns int, hasCI, hasConvergence bool) int {
	termWidth := getTerminalWidth(cfg)

	// Reserve space for fixed columns with table formatting
	baseWidth := 60 // Window + Start + End + Events with borders/padding

	// Add interval columns
	if hasCI {
		baseWidth += 40 // CI.low + CI.high + Label with formatting
	}

	// Add convergence column
	if hasConvergence {
		baseWidth += 14
	}

	if keyColumns <= 0 {
		return maxKeyWidth
	}

	// Each column costs its label plus 3 characters of separator and padding
	available := (termWidth-baseWidth)/keyColumns - 3
	return max(minKeyWidth, min(available, maxKeyWidth))
}
