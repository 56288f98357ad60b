package core

// Color represents a foreground color for a screen cell.
// The platform maps these to ANSI 256-color codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorGray
)

// Court palette.
const (
	ColorCourt   = ColorGreen
	ColorLines   = ColorWhite
	ColorNet     = ColorGray
	ColorHuman   = ColorBrightBlue
	ColorCPU     = ColorBrightRed
	ColorShuttle = ColorBrightYellow
	ColorServe   = ColorYellow
)
