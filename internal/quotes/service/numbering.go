package service

import (
	"fmt"
	"strconv"
	"strings"

	"tejwal_backend/platform/apperr"
)

const quoteNumberTag = "Q"

// quoteNumberPrefix returns the search prefix for a calendar year,
// e.g. "Q-2026-".
func quoteNumberPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", quoteNumberTag, year)
}

// formatQuoteNumber renders a number like "Q-2026-000042". Sequences beyond
// six digits widen naturally; the sequence read orders by length before value
// so wider numbers still compare numerically.
func formatQuoteNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%06d", quoteNumberTag, year, seq)
}

// nextQuoteNumber derives the successor of the highest stored number for the
// year. An empty last number starts the year at 000001. A stored number that
// does not parse is corrupt data and fails hard so an operator looks at it
// instead of the sequence silently restarting.
func nextQuoteNumber(last string, year int) (string, error) {
	if last == "" {
		return formatQuoteNumber(year, 1), nil
	}
	parts := strings.Split(last, "-")
	if len(parts) != 3 || parts[0] != quoteNumberTag {
		return "", apperr.Internal(fmt.Sprintf("malformed quote number %q in sequence", last))
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return "", apperr.Internal(fmt.Sprintf("malformed quote number %q in sequence", last))
	}
	return formatQuoteNumber(year, seq+1), nil
}
