package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalSortLess(t *testing.T) {
	testCases := []struct {
		s1, s2   string
		expected bool
	}{
		{"Saga 2", "Saga 10", true},
		{"Saga 10", "Saga 2", false},
		{"page1.jpg", "page10.jpg", true},
		{"page10.jpg", "page2.jpg", false},
		{"v1.2", "v1.10", true},
		{"issue-001", "issue-2", true},
		{"a", "b", true},
		{"b", "a", false},
		{"file", "file1", true},
		{"file1", "file", false},
		{"Batman", "batman 1", true},
		{"1 page", "page", true},
		{"page 99999999999999999999", "page 100000000000000000000", true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NaturalSortLess(tc.s1, tc.s2), "NaturalSortLess(%q, %q)", tc.s1, tc.s2)
	}
}

func TestNaturalCompare_Equal(t *testing.T) {
	for _, pair := range [][2]string{
		{"Saga 1", "Saga 1"},
		{"Saga 01", "Saga 1"},
		{"SAGA", "saga"},
		{"", ""},
	} {
		assert.Equal(t, 0, NaturalCompare(pair[0], pair[1]), "%q vs %q", pair[0], pair[1])
		assert.False(t, NaturalSortLess(pair[0], pair[1]))
	}
}

func TestSortNatural(t *testing.T) {
	names := []string{"10.png", "2.png", "1.png", "cover.png", "01a.png"}
	SortNatural(names)
	assert.Equal(t, []string{"1.png", "01a.png", "2.png", "10.png", "cover.png"}, names)
}
