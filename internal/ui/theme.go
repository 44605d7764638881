package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Active string
	CornerTL, CornerTR, CornerBL, CornerBR       string
	H, V, Sep                                    string
	BtnOpen, BtnClose                            string
	Ellipsis                                     string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Active: "\033[93m" + rev,
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│", Sep: "│",
			BtnOpen: "(", BtnClose: ")",
			Ellipsis: "…",
		}
	case "mono":
		disableColor = true
		current = Theme{
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|", Sep: "|",
			BtnOpen: "[", BtnClose: "]",
			Ellipsis: "...",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Active: fgYellow + bold,
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│", Sep: "│",
			BtnOpen: "[", BtnClose: "]",
			Ellipsis: "…",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }
