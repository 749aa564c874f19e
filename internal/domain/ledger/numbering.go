package ledger

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/normx-ai/backend/internal/domain/shared"
)

// Entry numbers follow the contract <JournalCode><YY><seq4>, e.g. AC240001.
// Downstream exports depend on this format bit-exactly; sequences are
// gapless per journal+year and never reused, even after a draft is deleted.

// NumberPrefix returns the journal+year prefix an entry number starts with
func NumberPrefix(journalCode string, date time.Time) string {
	return fmt.Sprintf("%s%02d", journalCode, date.Year()%100)
}

// MaxSequence is the highest sequence the four-digit suffix can carry.
// Past it the number would widen to five digits and the lexicographic
// MAX(number) lookup would misorder, so allocation stops here.
const MaxSequence = 9999

// ErrSequenceExhausted signals that a journal has used up its numbers
// for the year.
var ErrSequenceExhausted = shared.NewConsistencyError("SEQUENCE_EXHAUSTED",
	"Journal has no entry numbers left for the year")

// FormatNumber builds a full entry number from a prefix and a sequence
func FormatNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// SequenceFromNumber extracts the sequence part of an entry number given
// its prefix. Returns 0 when the number does not carry a numeric suffix.
func SequenceFromNumber(number, prefix string) int {
	if len(number) <= len(prefix) {
		return 0
	}
	n, err := strconv.Atoi(number[len(prefix):])
	if err != nil {
		return 0
	}
	return n
}

const reconciliationCodeLength = 6

const reconciliationCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReconciliationCode generates a random 6-character reconciliation code
func NewReconciliationCode() string {
	buf := make([]byte, reconciliationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// timestamp-derived code rather than panic in ledger code.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	for i, b := range buf {
		buf[i] = reconciliationCharset[int(b)%len(reconciliationCharset)]
	}
	return string(buf)
}
