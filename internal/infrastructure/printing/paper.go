package printing

import "strings"

// PaperSize is the output page format
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeLetter PaperSize = "LETTER"
)

// ParsePaperSize parses a configured paper size, case-insensitively.
// Unknown values fall back to A4.
func ParsePaperSize(raw string) PaperSize {
	if PaperSize(strings.ToUpper(strings.TrimSpace(raw))) == PaperSizeLetter {
		return PaperSizeLetter
	}
	return PaperSizeA4
}

// IsValid checks if the paper size is supported
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeLetter
}

// Dimensions returns width and height in millimeters
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeLetter:
		return 215.9, 279.4
	default:
		return 210, 297
	}
}

// Margins are page margins in millimeters
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins returns the margins used for statements
func DefaultMargins() Margins {
	return Margins{Top: 15, Right: 12, Bottom: 15, Left: 12}
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
