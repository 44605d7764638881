// Package pager computes the sliding row of page buttons shown under the list.
package pager

import "math"

// DefaultWindowSize is the number of page buttons shown at once.
const DefaultWindowSize = 6

// Button is one page index in the window.
type Button struct {
	Page   int
	Active bool
}

// Window returns the contiguous, ascending page indices to render as buttons.
// The window is centered on current when possible and shifted back near the
// end so that size buttons are shown whenever totalPages allows it. The upper
// bound totalPages is inclusive.
func Window(current, totalPages, size int) []int {
	if size <= 0 || totalPages < 0 {
		return nil
	}
	// past the last page the window is the same as on it
	current = min(current, totalPages)
	start := max(0, current-size/2)
	end := min(totalPages, start+size-1)
	if end-start+1 < size {
		start = max(0, end-size+1)
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// Buttons is Window with the active page marked.
func Buttons(current, totalPages, size int) []Button {
	pages := Window(current, totalPages, size)
	out := make([]Button, len(pages))
	for i, p := range pages {
		out[i] = Button{Page: p, Active: p == current}
	}
	return out
}

// LastPage turns a fractional page count (records / per page) into the
// inclusive upper page index. An exact multiple does not produce a trailing
// empty page, and an empty dataset still yields page 0.
func LastPage(totalPages float64) int {
	// Rounding up (not the floor of the page count) is intentional: exactly
	// 200 records at 10 per page give pages 0..19, with no empty page 20.
	if totalPages <= 0 || math.IsNaN(totalPages) {
		return 0
	}
	return int(math.Ceil(totalPages)) - 1
}
