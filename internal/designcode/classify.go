package designcode

import (
	"regexp"
	"strings"
)

type Category string

const (
	CategoryRegular      Category = "regular"
	CategoryPrint        Category = "print"
	CategoryDigital      Category = "digital"
	CategoryDesignNumber Category = "design-number"
	CategoryOther        Category = "other"
)

var numericCode = regexp.MustCompile(`^\d+$`)

// Classify maps a design code onto exactly one category. Precedence:
// pure number, then digital markers, then print suffix, then regular.
// Both historical digital marker conventions ("D-" and "DDBY-"/"D DBY-")
// are recognized.
func Classify(code string) Category {
	if code == "" {
		return CategoryOther
	}
	if numericCode.MatchString(code) {
		return CategoryDesignNumber
	}
	if strings.Contains(code, "D-") || strings.Contains(code, "DDBY-") || strings.HasPrefix(code, "D DBY-") {
		return CategoryDigital
	}
	if hasPrintSuffix(code) {
		return CategoryPrint
	}
	return CategoryRegular
}

// hasPrintSuffix reports whether the part after the last hyphen is a
// 3 or 4 digit run, the convention for print design numbering.
func hasPrintSuffix(code string) bool {
	i := strings.LastIndex(code, "-")
	if i < 0 {
		return false
	}
	suffix := code[i+1:]
	if len(suffix) != 3 && len(suffix) != 4 {
		return false
	}
	return numericCode.MatchString(suffix)
}

// MatchesPrefix is the interactive prefix filter, independent of the
// categories above.
func MatchesPrefix(code, prefix string) bool {
	return prefix != "" && strings.HasPrefix(code, prefix)
}
