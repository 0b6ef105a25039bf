package util

import (
	"sort"
	"strings"
)

// NaturalCompare orders two strings the way a reader expects file names to
// be ordered: runs of digits compare by numeric value, everything else
// compares case-insensitively. It returns -1, 0 or 1.
//
// Digit runs are compared as strings after dropping leading zeros, so
// arbitrarily long numbers never overflow.
func NaturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		ta, restA := nextToken(a)
		tb, restB := nextToken(b)
		aNum, bNum := isDigit(ta[0]), isDigit(tb[0])

		switch {
		case aNum && !bNum:
			return -1
		case !aNum && bNum:
			return 1
		case aNum:
			if c := compareDigits(ta, tb); c != 0 {
				return c
			}
		default:
			if c := strings.Compare(ta, tb); c != 0 {
				return c
			}
		}
		a, b = restA, restB
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// NaturalSortLess reports whether s1 sorts before s2 in natural order.
func NaturalSortLess(s1, s2 string) bool {
	return NaturalCompare(s1, s2) < 0
}

// SortNatural sorts names in place in natural order.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return NaturalSortLess(names[i], names[j]) })
}

// nextToken splits off the leading run of digits or non-digits of s.
func nextToken(s string) (string, string) {
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
