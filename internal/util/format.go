package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatCount formats a particle count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatRate formats frames per second with one decimal.
func FormatRate(frames uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "0.0 fps"
	}
	return fmt.Sprintf("%.1f fps", float64(frames)/elapsed.Seconds())
}

// FormatEnergy formats a kinetic energy value with an SI prefix.
func FormatEnergy(e float64) string {
	return strings.TrimSpace(humanize.SIWithDigits(e, 1, ""))
}
