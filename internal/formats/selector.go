package formats

import (
	"sort"
	"strconv"
	"strings"

	"vidfetch-server/internal/extract"
)

// DefaultQualities is offered when extraction yields no progressive
// formats, so the client is never shown an empty menu.
var DefaultQualities = []string{"720p", "480p", "360p"}

// SelectQualities derives the quality menu from raw formats: entries that
// carry both video and audio, deduplicated by label, highest resolution
// first. Labels without a numeric component sort last in input order.
func SelectQualities(raw []extract.Format) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, f := range raw {
		if !f.HasVideo || !f.HasAudio || f.QualityLabel == "" {
			continue
		}
		if _, ok := seen[f.QualityLabel]; ok {
			continue
		}
		seen[f.QualityLabel] = struct{}{}
		labels = append(labels, f.QualityLabel)
	}
	if len(labels) == 0 {
		return append([]string(nil), DefaultQualities...)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return ParseHeight(labels[i]) > ParseHeight(labels[j])
	})
	return labels
}

// PickFormat chooses the format a worker downloads: an exact label match
// when the requested quality offers one, otherwise the best available
// format. Progressive formats win ties. ok is false when nothing carries
// video at all.
func PickFormat(raw []extract.Format, quality string) (extract.Format, bool) {
	var exact, best extract.Format
	var haveExact, haveBest bool
	for _, f := range raw {
		if !f.HasVideo {
			continue
		}
		if quality != "" && f.QualityLabel == quality {
			if !haveExact || betterThan(f, exact) {
				exact = f
				haveExact = true
			}
		}
		if !haveBest || betterThan(f, best) {
			best = f
			haveBest = true
		}
	}
	if haveExact {
		return exact, true
	}
	return best, haveBest
}

func betterThan(a, b extract.Format) bool {
	if a.HasAudio != b.HasAudio {
		return a.HasAudio
	}
	return heightOf(a) > heightOf(b)
}

func heightOf(f extract.Format) int {
	if f.Height > 0 {
		return f.Height
	}
	return ParseHeight(f.QualityLabel)
}

// ParseHeight extracts the vertical resolution from a quality label
// ("1080p60" -> 1080). "4k" is an alias for 2160. Returns 0 when the
// label carries no leading digits.
func ParseHeight(label string) int {
	if strings.EqualFold(label, "4k") {
		return 2160
	}
	digits := ""
	for _, c := range label {
		if c >= '0' && c <= '9' {
			digits += string(c)
		} else if digits != "" {
			break
		}
	}
	if digits == "" {
		return 0
	}
	val, _ := strconv.Atoi(digits)
	return val
}
