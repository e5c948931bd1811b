package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// NewSerial builds a mint receipt serial: prefix, base36 timestamp, and a
// zero-padded random suffix. Uniqueness is probabilistic (time plus
// randomness), acceptable for a non-authoritative client-side receipt; this
// is not a collision-proof identifier.
func NewSerial(prefix string) string {
	now := time.Now().UnixMilli()
	suffix := rand.Intn(1_000_000)
	return fmt.Sprintf("%s-%s-%06d", prefix, strings.ToUpper(strconv.FormatInt(now, 36)), suffix)
}
