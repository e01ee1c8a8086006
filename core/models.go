package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is the platform-assigned numeric identity of a user.
// It is unique, immutable, and trusted as given by the chat platform.
type ID uint64

// FingerprintText generates a deterministic 64-bit fingerprint of text content
// using BLAKE2b hashing. Identical content produces identical fingerprints; the
// search index uses this to skip reindexing unchanged profiles.
func FingerprintText(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Profile is a user's published identity card.
type Profile struct {
	Id        ID
	Name      string
	Branch    string
	Role      string
	About     string
	PhotoRef  string // opaque media handle supplied by the platform; empty if none
	CreatedAt time.Time
}

// SearchText returns the concatenation of the profile's indexable fields,
// in the order the search index tokenizes them.
func (p *Profile) SearchText() string {
	return p.Name + " " + p.Branch + " " + p.Role + " " + p.About
}

// InterestEdge is a one-directional "interested in" record between two users.
type InterestEdge struct {
	From      ID
	To        ID
	CreatedAt time.Time
}

// MatchOutcome is the result of recording a directed interest.
// Matched is false while interest exists in only one direction; when it is
// true, A and B carry both parties' profiles.
type MatchOutcome struct {
	Matched bool
	A       *Profile
	B       *Profile
}

// Pending is the outcome of a one-directional interest.
var Pending = MatchOutcome{}

// PairKey returns a canonical encoding of the unordered pair {a, b}.
// PairKey(a, b) == PairKey(b, a) always.
func PairKey(a, b ID) string {
	if b < a {
		a, b = b, a
	}
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(a))
	binary.BigEndian.PutUint64(buf[8:], uint64(b))
	return string(buf[:])
}
