package badger

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/mingle/core"
)

// Key prefixes for different data types
const (
	profilePrefix         = "prof"
	interestPrefix        = "intr"
	interestReversePrefix = "intrr"
)

// makeProfileKey generates a key for a profile by ID.
func makeProfileKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", profilePrefix, id))
}

// parseProfileKey extracts the profile ID from a profile key.
func parseProfileKey(key []byte) (core.ID, error) {
	s := string(key)
	rest, ok := strings.CutPrefix(s, profilePrefix+":")
	if !ok {
		return 0, fmt.Errorf("not a profile key: %q", s)
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad profile key %q: %w", s, err)
	}
	return core.ID(id), nil
}

// makeInterestKey generates a composite key for an interest edge.
// Format: prefix : from : to, ids in BigEndian so lexicographic sort groups
// all edges of one source user together.
func makeInterestKey(from, to core.ID) []byte {
	prefix := interestPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	binary.BigEndian.PutUint64(buf[offset+8:], uint64(to))
	return buf
}

// makePartialInterestKey generates the prefix of all edges with the given source.
func makePartialInterestKey(from core.ID) []byte {
	prefix := interestPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	return buf
}

// makeInterestReverseKey generates the reverse-index key for an edge.
// Format: prefix : to : from, used to find all edges pointing at a user.
func makeInterestReverseKey(from, to core.ID) []byte {
	prefix := interestReversePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	binary.BigEndian.PutUint64(buf[offset+8:], uint64(from))
	return buf
}

// makePartialInterestReverseKey generates the prefix of all reverse-index
// entries for edges pointing at the given user.
func makePartialInterestReverseKey(to core.ID) []byte {
	prefix := interestReversePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	return buf
}

// parseInterestReverseKey extracts (from, to) from a reverse-index key.
func parseInterestReverseKey(key []byte) (from, to core.ID, err error) {
	prefix := interestReversePrefix + ":"
	if len(key) != len(prefix)+16 {
		return 0, 0, fmt.Errorf("bad interest reverse key length %d", len(key))
	}
	to = core.ID(binary.BigEndian.Uint64(key[len(prefix):]))
	from = core.ID(binary.BigEndian.Uint64(key[len(prefix)+8:]))
	return from, to, nil
}
