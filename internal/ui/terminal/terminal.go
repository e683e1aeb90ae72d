package terminal

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"os"
	"strings"

	"github.com/BourgeoisBear/rasterm"
)

// TermImageMode represents the terminal's image display capability
type TermImageMode int

const (
	// TermModeNone indicates no image support
	TermModeNone TermImageMode = iota
	// TermModeKitty indicates Kitty graphics protocol support
	TermModeKitty
	// TermModeIterm indicates iTerm2 graphics protocol support
	TermModeIterm
	// TermModeSixel indicates Sixel graphics protocol support
	TermModeSixel
)

// Kitty image ids for the details modal, so covers can be deleted without
// touching anything else on screen
const (
	CoverImageID uint32 = 4242
	ThumbImageID uint32 = 4243
)

// envImageMode lets users force a mode when detection guesses wrong
const envImageMode = "BOOKFINDER_IMAGES"

// String returns a human-readable name for the terminal mode
func (m TermImageMode) String() string {
	switch m {
	case TermModeKitty:
		return "Kitty"
	case TermModeIterm:
		return "iTerm2"
	case TermModeSixel:
		return "Sixel"
	default:
		return "None"
	}
}

// ParseMode maps a user setting to a mode. ok is false for "auto" or
// unknown values.
func ParseMode(s string) (mode TermImageMode, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "false", "0":
		return TermModeNone, true
	case "kitty":
		return TermModeKitty, true
	case "iterm", "iterm2":
		return TermModeIterm, true
	case "sixel":
		return TermModeSixel, true
	default:
		return TermModeNone, false
	}
}

// DetectTerminalMode picks the image protocol for covers. BOOKFINDER_IMAGES
// wins over probing the terminal.
func DetectTerminalMode() TermImageMode {
	if mode, ok := ParseMode(os.Getenv(envImageMode)); ok {
		return mode
	}

	switch {
	case rasterm.IsKittyCapable():
		return TermModeKitty
	case rasterm.IsItermCapable():
		return TermModeIterm
	}
	if sixel, err := rasterm.IsSixelCapable(); err == nil && sixel {
		return TermModeSixel
	}
	return TermModeNone
}

// RenderCover encodes a cover thumbnail for mode. id tags Kitty images so
// ClearCoverImage can remove them later.
func RenderCover(img image.Image, mode TermImageMode, id uint32) (string, error) {
	if img == nil {
		return "", nil
	}

	var buf strings.Builder
	var err error
	switch mode {
	case TermModeKitty:
		err = rasterm.KittyWriteImage(&buf, img, rasterm.KittyImgOpts{ImageId: id})
	case TermModeIterm:
		err = rasterm.ItermWriteImage(&buf, img)
	case TermModeSixel:
		err = rasterm.SixelWriteImage(&buf, sixelPalette(img))
	default:
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("render cover as %s: %w", mode, err)
	}
	return buf.String(), nil
}

// sixelPalette quantizes img, sixel only carries paletted images
func sixelPalette(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	p := image.NewPaletted(bounds, palette.Plan9)
	draw.Draw(p, bounds, img, bounds.Min, draw.Src)
	return p
}

// ClearCoverImage returns the escape sequence that removes the details cover
// and the recommendation thumbnail
func ClearCoverImage(mode TermImageMode) string {
	switch mode {
	case TermModeKitty:
		return fmt.Sprintf("\x1b_Ga=d,i=%d\x1b\\\x1b_Ga=d,i=%d\x1b\\", CoverImageID, ThumbImageID)
	case TermModeIterm, TermModeSixel:
		// Inline images live in the character grid; a full clear removes them
		return "\x1b[2J\x1b[H"
	default:
		return ""
	}
}

// ClearCoverCmd returns a function that writes ClearCoverImage to stdout.
// Call it before the details modal closes.
func ClearCoverCmd(mode TermImageMode) func() {
	return func() {
		if seq := ClearCoverImage(mode); seq != "" {
			os.Stdout.WriteString(seq)
		}
	}
}
