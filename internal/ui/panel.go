package ui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/idilsaglam/feedpager/internal/model"
	"github.com/idilsaglam/feedpager/internal/pager"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visibleWidth(s string) int { return utf8.RuneCountInString(stripANSI(s)) }

// ProgressBar renders how far page is through [0, last].
func ProgressBar(page, last, width int) string {
	if width < 5 {
		width = 5
	}
	total := last + 1
	if total <= 0 {
		total = 1
	}
	done := min(max(page, -1), total-1) + 1
	filled := done * width / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}

// Columns splits width into id / title / body columns (about 8/32/60 %),
// leaving room for the two separators.
func Columns(width int) (id, title, body int) {
	inner := max(width-2*3, 12)
	id = max(inner*8/100, 4)
	title = max(inner*32/100, 4)
	body = max(inner-id-title, 4)
	return id, title, body
}

// Truncate cuts s to n runes, marking the cut with the theme's ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	ell := current.Ellipsis
	keep := n - utf8.RuneCountInString(ell)
	if keep <= 0 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:keep]) + ell
}

func pad(s string, n int) string {
	if w := visibleWidth(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// RecordLine renders one record as three fixed-width columns.
func RecordLine(r model.Record, width int) string {
	idw, tw, bw := Columns(width)
	sep := " " + C(current.Muted, current.Sep) + " "
	return pad(C(current.Title, Truncate(fmt.Sprint(r.ID), idw)), idw) + sep +
		pad(Truncate(r.Title, tw), tw) + sep +
		C(current.Muted, Truncate(r.Body, bw))
}

// ButtonRow renders the page buttons; the active one is highlighted.
func ButtonRow(buttons []pager.Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		label := fmt.Sprint(b.Page)
		if b.Active {
			parts = append(parts, C(current.Active, current.BtnOpen+label+current.BtnClose))
			continue
		}
		parts = append(parts, C(current.Muted, " "+label+" "))
	}
	return strings.Join(parts, " ")
}

// PanelString draws a framed box using the current theme.
func PanelString(lines []string) string {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		maxw = max(maxw, visibleWidth(ln))
	}

	var sb strings.Builder
	sb.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range lines {
		sb.WriteString(t.V + " " + pad(ln, maxw) + " " + t.V + "\n")
	}
	sb.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR + "\n")
	return sb.String()
}
