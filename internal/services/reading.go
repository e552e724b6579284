package services

import (
	"math"
	"regexp"
	"strings"
)

const DefaultWordsPerMinute = 200

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^\s*#{1,6}\s`)
)

// EstimateReadingMinutes approximates the time to read a markdown lesson.
// Code blocks are ignored, link targets dropped, heading markers stripped.
// The result is never below one minute.
func EstimateReadingMinutes(markdown string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	text := fencedCodeRe.ReplaceAllString(markdown, " ")
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / float64(wpm)))
	if minutes < 1 {
		return 1
	}
	return minutes
}
