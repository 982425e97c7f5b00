package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

// ISO 8601 durations as the Data API emits them (e.g. "PT1H2M3S", "PT45S").
var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// durationParts splits an ISO 8601 duration into components. Malformed
// input yields all zeros; this feeds a filter, not a validation gate.
func durationParts(duration string) (hours, minutes, seconds int) {
	matches := isoDurationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0, 0, 0
	}

	if matches[1] != "" {
		hours, _ = strconv.Atoi(matches[1])
	}
	if matches[2] != "" {
		minutes, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		seconds, _ = strconv.Atoi(matches[3])
	}

	return hours, minutes, seconds
}

func durationSeconds(duration string) int {
	h, m, s := durationParts(duration)
	return h*3600 + m*60 + s
}

// durationLabel renders a duration as a clock string: "H:MM:SS" when hours
// are present, otherwise "M:SS".
func durationLabel(duration string) string {
	h, m, s := durationParts(duration)

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
