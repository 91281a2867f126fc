package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// yearRegexp captures the first run of 2–4 consecutive digits.
var yearRegexp = regexp.MustCompile(`\d{2,4}`)

// ParseYear extracts a model year from scraped text such as "24년식" or
// "2021년형". The first run of 2–4 digits wins; two-digit years are kept
// as-is, without century inference. ok is false when no digits are found.
func ParseYear(s string) (int, bool) {
	match := yearRegexp.FindString(s)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// ParseMileage converts scraped mileage text such as "12,345km" to
// kilometers. Thousands separators and the trailing km marker are stripped
// before parsing. ok is false for empty or non-numeric input.
func ParseMileage(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimSuffix(s, "km"))
	km, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return km, true
}

// ParsePrice converts scraped price text such as "1,250만원" or
// "1,250 만원 (네고가능)" to 만원 (10,000 KRW) units. A first character that
// is not a digit marks placeholder text like "문의" and parses to nothing.
// The token is cut at the first whitespace before separators are stripped,
// so trailing annotations never corrupt the number.
func ParsePrice(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !unicode.IsDigit([]rune(s)[0]) {
		return 0, false
	}
	token := strings.Fields(s)[0]
	token = strings.ReplaceAll(token, ",", "")
	token = strings.TrimSuffix(token, "만원")
	price, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return price, true
}
