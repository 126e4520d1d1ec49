package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineClass
	}{
		{"", LineBlank},
		{"   \t", LineBlank},
		{"[1] Smith, J. (2020)", LineReference},
		{"[42] footnote text", LineReference},
		{"• first item", LineBullet},
		{"- second item", LineBullet},
		{"- deadline: tomorrow", LineBullet},
		{"# Title", LineHeading},
		{"## Subtitle", LineHeading},
		{"**Bold heading**", LineHeading},
		{"__Emphasis heading__", LineHeading},
		{"1. Introduction", LineHeading},
		{"12. Conclusions", LineHeading},
		{"3.", LineHeading},
		{"Agenda:", LineLabel},
		{"Next steps:  ", LineLabel},
		{"plain prose line", LineProse},
		{"deadline: tomorrow at noon", LineProse},
		{"1.5 million users", LineProse},
		{"a hyphen-joined word", LineProse},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line), "line %q", tt.line)
		})
	}
}

func TestLineClassIsBoundary(t *testing.T) {
	assert.True(t, LineHeading.IsBoundary())
	assert.True(t, LineLabel.IsBoundary())
	assert.False(t, LineBlank.IsBoundary())
	assert.False(t, LineReference.IsBoundary())
	assert.False(t, LineBullet.IsBoundary())
	assert.False(t, LineProse.IsBoundary())
}
