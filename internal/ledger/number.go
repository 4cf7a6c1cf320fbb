package ledger

import (
	"fmt"
	"regexp"
	"strconv"
)

var numberSuffixRe = regexp.MustCompile(`\d+$`)

// NumberSuffix extracts the trailing digit run of a voucher number.
// Numbers without a digit suffix count as zero.
func NumberSuffix(number string) int {
	m := numberSuffixRe.FindString(number)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// FormatNumber builds a voucher number from a type prefix and sequence,
// zero-padded to four digits (REC0001, SAL0042, ...).
func FormatNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// NextNumber computes the next voucher number for a prefix given the
// numbers already issued: one past the highest numeric suffix, starting
// at 0001 when none exist. Numbers not starting with the prefix are
// ignored.
func NextNumber(prefix string, existing []string) string {
	max := 0
	for _, num := range existing {
		if len(num) < len(prefix) || num[:len(prefix)] != prefix {
			continue
		}
		if n := NumberSuffix(num); n > max {
			max = n
		}
	}
	return FormatNumber(prefix, max+1)
}
