package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/tanq16/rangefetch/internal/utils"
	"golang.org/x/term"
)

func PrintProgressBar(current, total int64, width int) string {
	if width <= 0 {
		width = 30
	}
	if total <= 0 {
		total = 1
	}
	current = max(0, min(current, total))
	percent := float64(current) / float64(total)
	filled := max(0, min(int(percent*float64(width)), width))
	bar := StyleSymbols["bullet"]
	bar += strings.Repeat(StyleSymbols["hline"], filled)
	bar += strings.Repeat(" ", width-filled)
	bar += StyleSymbols["bullet"]
	return debugStyle.Render(fmt.Sprintf("%s %.1f%% %s ", bar, percent*100, StyleSymbols["bullet"]))
}

// progressLine renders "bar 42.0% • 12 MiB / 30 MiB • 4.1 MiB/s".
func progressLine(current, total int64, elapsed float64) string {
	sizes := fmt.Sprintf("%s / %s", utils.FormatBytes(uint64(max(current, 0))), utils.FormatBytes(uint64(max(total, 0))))
	return fmt.Sprintf("%s%s %s %s", PrintProgressBar(current, total, 30), debugStyle.Render(sizes), StyleSymbols["bullet"], debugStyle.Render(utils.FormatSpeed(current, elapsed)))
}

func getTerminalHeight() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return 24
	}
	return height
}
