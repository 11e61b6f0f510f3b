package core

// Color represents a foreground color for a screen cell. The platform
// layer maps each value to an ANSI 256-color code.
type Color uint8

// Base palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Stage palette.
const (
	ColorP1       = ColorBrightBlue
	ColorP2       = ColorBrightRed
	ColorHurtbox  = ColorGreen
	ColorHitbox   = ColorBrightYellow
	ColorThrowbox = ColorMagenta
	ColorPushbox  = ColorGray
)
