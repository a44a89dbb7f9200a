package fault

import "strconv"

// Ordinal returns n with its English ordinal suffix (1st, 2nd, 3rd, 4th).
// Values ending in 11, 12 or 13 always take "th" (11th, 12th, 13th, 111th).
func Ordinal(n int) string {
	last2 := n % 100
	if last2 < 0 {
		last2 = -last2
	}

	if last2 >= 11 && last2 <= 13 {
		return strconv.Itoa(n) + "th"
	}

	switch last2 % 10 {
	case 1:
		return strconv.Itoa(n) + "st"
	case 2:
		return strconv.Itoa(n) + "nd"
	case 3:
		return strconv.Itoa(n) + "rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}
