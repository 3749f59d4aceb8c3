package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"", 7, 7},
		{"42", 0, 42},
		{"-3", 0, -3},
		{"x", 9, 9},
		{"4.2", 9, 9},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.in, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestPageBounds(t *testing.T) {
	cases := []struct {
		page, size            int
		wantOffset, wantLimit int
	}{
		{1, 20, 0, 20},
		{3, 10, 20, 10},
		{0, 10, 0, 10},   // page clamps to 1
		{-5, 10, 0, 10},  // page clamps to 1
		{2, 0, 20, 20},   // size falls back to 20
		{2, -1, 20, 20},  // size falls back to 20
	}
	for _, tc := range cases {
		off, lim := PageBounds(tc.page, tc.size)
		if off != tc.wantOffset || lim != tc.wantLimit {
			t.Fatalf("PageBounds(%d, %d) = (%d, %d); want (%d, %d)",
				tc.page, tc.size, off, lim, tc.wantOffset, tc.wantLimit)
		}
	}
}
