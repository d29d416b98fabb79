package quote

import (
	"fmt"
	"time"
)

// FormatNumber builds PREFIX-YEAR-SEQ with the sequence padded to four
// digits.
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// NextNumber is the tentative number for the quote following counter.
// It does not reserve anything: the counter only moves on a successful
// remote save.
func NextNumber(prefix string, now time.Time, counter int64) string {
	return FormatNumber(prefix, now.Year(), counter+1)
}
