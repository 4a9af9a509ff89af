package pebblebatch

import (
	"encoding/binary"
)

// Entry key layout:
//
//	'd' | batch id (8, BE) | esc(key) | esc(val) | time (8, BE) | seq (8, BE)
//
// esc is prefix-free and preserves byte order, so entries sort by
// (batch, key, val, time, seq). The entry value is the varint diff.
//
// Meta key layout:
//
//	'm' | batch id (8, BE)  ->  varint update count
const (
	dataTag = 'd'
	metaTag = 'm'

	escape     = 0x00
	escapedNul = 0xff
	terminator = 0x01

	idLen   = 8
	tailLen = 16
)

func batchPrefix(id uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{dataTag}, id)
}

func metaKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{metaTag}, id)
}

// appendEscaped appends b with 0x00 escaped as 0x00 0xff, then 0x00 0x01.
func appendEscaped(dst, b []byte) []byte {
	for _, c := range b {
		if c == escape {
			dst = append(dst, escape, escapedNul)
		} else {
			dst = append(dst, c)
		}
	}
	return append(dst, escape, terminator)
}

// unescape decodes one escaped field from the front of b.
// The result never aliases b.
func unescape(b []byte) (field, rest []byte, err error) {
	field = make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != escape {
			field = append(field, b[i])
			continue
		}
		if i+1 == len(b) {
			break
		}
		switch b[i+1] {
		case escapedNul:
			field = append(field, escape)
			i++
		case terminator:
			return field, b[i+2:], nil
		default:
			return nil, nil, ErrCorruptEntry
		}
	}
	return nil, nil, ErrCorruptEntry
}

// groupKey returns prefix | esc(key) | esc(val...), the common prefix of a
// key group or, with a val, of a (key, val) group.
func groupKey(prefix, key []byte, val ...[]byte) []byte {
	k := appendEscaped(append([]byte(nil), prefix...), key)
	for _, v := range val {
		k = appendEscaped(k, v)
	}
	return k
}

func entryKey(prefix, key, val []byte, time, seq uint64) []byte {
	k := groupKey(prefix, key, val)
	k = binary.BigEndian.AppendUint64(k, time)
	return binary.BigEndian.AppendUint64(k, seq)
}

// successor returns the least key greater than every key starting with group.
// group must end with a terminator.
func successor(group []byte) []byte {
	next := append([]byte(nil), group...)
	next[len(next)-1]++
	return next
}

// upperBound returns the least key greater than every key starting with prefix,
// or nil if there is none.
func upperBound(prefix []byte) []byte {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// decodeEntry splits an entry key into its fields. prefixLen bytes are skipped.
func decodeEntry(k []byte, prefixLen int) (key, val []byte, time uint64, err error) {
	if len(k) < prefixLen {
		return nil, nil, 0, ErrCorruptEntry
	}
	key, rest, err := unescape(k[prefixLen:])
	if err != nil {
		return
	}
	val, rest, err = unescape(rest)
	if err != nil {
		return
	}
	if len(rest) != tailLen {
		return nil, nil, 0, ErrCorruptEntry
	}
	time = binary.BigEndian.Uint64(rest)
	return
}

// decodeTime reads the time of an entry whose (key, val) group prefix is groupLen long.
func decodeTime(k []byte, groupLen int) (uint64, error) {
	if len(k) != groupLen+tailLen {
		return 0, ErrCorruptEntry
	}
	return binary.BigEndian.Uint64(k[groupLen:]), nil
}

func decodeDiff(v []byte) (int64, error) {
	diff, n := binary.Varint(v)
	if n <= 0 {
		return 0, ErrCorruptEntry
	}
	return diff, nil
}
