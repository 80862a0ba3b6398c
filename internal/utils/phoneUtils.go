package utils

// NormalizeMobile prepends countryCode to a bare 10-digit national number.
// Anything else, including 10 characters that are not all ASCII digits, is
// returned unchanged.
func NormalizeMobile(mobile, countryCode string) string {
	if isNationalNumber(mobile) {
		return countryCode + mobile
	}
	return mobile
}

func isNationalNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
