package format

import (
	"fmt"
	"math"
)

const (
	Thousand = 1000
	Million  = Thousand * 1000
	Billion  = Million * 1000
)

// HumanNumber abbreviates n with K, M or B suffixes.
func HumanNumber(n uint64) string {
	switch {
	case n >= Billion:
		number := float64(n) / Billion
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fB", number)
		}
		return fmt.Sprintf("%.1fB", number)
	case n >= Million:
		number := float64(n) / Million
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fM", number)
		}
		return fmt.Sprintf("%.1fM", number)
	case n >= Thousand:
		number := float64(n) / Thousand
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fK", number)
		}
		return fmt.Sprintf("%.1fK", number)
	default:
		return fmt.Sprintf("%d", n)
	}
}
