package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`[\d.]+`)

// NormalizeIncome parses a free-text income expression into whole rupees.
// Recognized forms, in order: "2.5 lakh" (x100000), "50k" (x1000), and a
// plain number with at most one decimal point. Currency symbols, commas and
// the token "rs" are stripped first. Anything else reports ok=false —
// absence, never zero.
func NormalizeIncome(s string) (amount int64, ok bool) {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "rs", "")
	s = strings.TrimSpace(s)

	switch {
	case strings.Contains(s, "lakh"):
		return scaleLeadingNumber(s, 100000)
	case strings.Contains(s, "k"):
		return scaleLeadingNumber(s, 1000)
	case isDecimal(s):
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func scaleLeadingNumber(s string, factor float64) (int64, bool) {
	num := leadingNumber.FindString(s)
	if num == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return int64(n * factor), true
}

// isDecimal reports whether s is digits with at most one decimal point.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return s != "."
}

// isDigits reports whether s is one or more ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isAlphaSpaces reports whether s is letters and spaces only, with at least
// one letter. Used to accept a bare name reply.
func isAlphaSpaces(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case r == ' ':
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}

// FormatINR renders whole rupees as ₹ with comma-grouped digits.
func FormatINR(n int64) string {
	digits := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "₹" + strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// ParseINR reverses FormatINR, accepting any comma-grouped digit string
// with an optional ₹ prefix.
func ParseINR(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "₹", ""), ",", ""))
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
