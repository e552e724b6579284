package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, EstimateReadingMinutes("", 200))
	assert.Equal(t, 1, EstimateReadingMinutes("# Title\n\nshort", 200))

	body := strings.Repeat("word ", 401)
	assert.Equal(t, 3, EstimateReadingMinutes(body, 200))
	assert.Equal(t, 3, EstimateReadingMinutes(body, 0))
}

func TestEstimateReadingMinutesIgnoresCodeAndLinkTargets(t *testing.T) {
	code := "```go\n" + strings.Repeat("x := 1\n", 500) + "```"
	md := "## Intro\n" + strings.Repeat("[read](https://example.com/a/b/c) ", 200) + "\n" + code
	// 1 heading word + 200 link texts; code ignored.
	assert.Equal(t, 2, EstimateReadingMinutes(md, 200))
	assert.Equal(t, 1, EstimateReadingMinutes(md, 250))
}
