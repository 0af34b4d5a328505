package designcode

import (
	"sort"
	"strconv"
	"strings"
)

// SortCodes orders codes in place by the convention of their category:
// regular and prefix-filtered lists alphabetically, design numbers by
// numeric value, digital and print codes by the numeric suffix after the
// final hyphen.
func SortCodes(category Category, codes []string) {
	switch category {
	case CategoryDesignNumber:
		sort.SliceStable(codes, func(i, j int) bool {
			a, _ := strconv.Atoi(codes[i])
			b, _ := strconv.Atoi(codes[j])
			return a < b
		})
	case CategoryDigital, CategoryPrint:
		sort.SliceStable(codes, func(i, j int) bool {
			return suffixNumber(codes[i]) < suffixNumber(codes[j])
		})
	default:
		sort.Strings(codes)
	}
}

func suffixNumber(code string) int {
	i := strings.LastIndex(code, "-")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(code[i+1:])
	if err != nil {
		return 0
	}
	return n
}
