package terminal

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in     string
		want   TermImageMode
		wantOK bool
	}{
		{in: "kitty", want: TermModeKitty, wantOK: true},
		{in: " iTerm2 ", want: TermModeIterm, wantOK: true},
		{in: "SIXEL", want: TermModeSixel, wantOK: true},
		{in: "off", want: TermModeNone, wantOK: true},
		{in: "auto", want: TermModeNone, wantOK: false},
		{in: "", want: TermModeNone, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDetectHonoursOverride(t *testing.T) {
	t.Setenv(envImageMode, "none")
	assert.Equal(t, TermModeNone, DetectTerminalMode())

	t.Setenv(envImageMode, "kitty")
	assert.Equal(t, TermModeKitty, DetectTerminalMode())
}

func TestRenderCover(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	out, err := RenderCover(img, TermModeNone, CoverImageID)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = RenderCover(nil, TermModeKitty, CoverImageID)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = RenderCover(img, TermModeKitty, ThumbImageID)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b_G")
	assert.Contains(t, out, "i=4243")
}

func TestClearCoverImage(t *testing.T) {
	kitty := ClearCoverImage(TermModeKitty)
	assert.Contains(t, kitty, "i=4242")
	assert.Contains(t, kitty, "i=4243")
	assert.Equal(t, "\x1b[2J\x1b[H", ClearCoverImage(TermModeSixel))
	assert.Empty(t, ClearCoverImage(TermModeNone))
	assert.Equal(t, "Kitty", TermModeKitty.String())
}
