package public

import (
	"fmt"
	"math"
)

// formatDistance renders meters for display: rounded whole meters below 1km,
// otherwise kilometers with one decimal (999 -> "999m", 1500 -> "1.5km").
func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
