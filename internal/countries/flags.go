package countries

import (
	"fmt"
	"path"
	"strings"
)

// FlagStyle selects how flag references are produced at load time.
type FlagStyle string

const (
	// FlagEmoji stores the flag as a pair of regional indicator symbols.
	FlagEmoji FlagStyle = "emoji"
	// FlagImage stores the flag as an image path under LoadOptions.ImageBase.
	FlagImage FlagStyle = "image"
)

// DefaultImageBase is the image directory used when LoadOptions.ImageBase is empty.
const DefaultImageBase = "flags"

// ParseFlagStyle parses a flag style string.
func ParseFlagStyle(s string) (FlagStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emoji", "":
		return FlagEmoji, nil
	case "image":
		return FlagImage, nil
	default:
		return "", fmt.Errorf("invalid flag style: %s (use emoji or image)", s)
	}
}

// LoadOptions configures catalog construction.
type LoadOptions struct {
	Flags     FlagStyle
	ImageBase string
}

func (o LoadOptions) flagRef(code string) string {
	if o.Flags == FlagImage {
		base := o.ImageBase
		if base == "" {
			base = DefaultImageBase
		}
		return path.Join(base, strings.ToLower(code)+".png")
	}
	return EmojiFlag(code)
}

// EmojiFlag returns the regional indicator pair for a two-letter code.
// Returns empty string for anything else.
func EmojiFlag(code string) string {
	code = strings.ToUpper(code)
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < 2; i++ {
		ch := code[i]
		if ch < 'A' || ch > 'Z' {
			return ""
		}
		b.WriteRune(rune(0x1F1E6 + int(ch-'A')))
	}
	return b.String()
}
