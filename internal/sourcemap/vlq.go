package sourcemap

import (
	"errors"
	"strings"
)

const (
	vlqBaseShift       = 5
	vlqBase            = 1 << vlqBaseShift
	vlqBaseMask        = vlqBase - 1
	vlqContinuationBit = vlqBase
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		idx[base64Chars[i]] = int8(i)
	}
	return idx
}()

var (
	errVLQBadChar   = errors.New("invalid base64 VLQ character")
	errVLQTruncated = errors.New("truncated base64 VLQ value")
)

func encodeVLQ(sb *strings.Builder, value int) {
	// знак уходит в младший бит
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}
	for {
		digit := v & vlqBaseMask
		v >>= vlqBaseShift
		if v > 0 {
			digit |= vlqContinuationBit
		}
		sb.WriteByte(base64Chars[digit])
		if v == 0 {
			return
		}
	}
}

// decodeVLQ reads one value from s starting at pos and returns it with the
// position right after it.
func decodeVLQ(s string, pos int) (int, int, error) {
	result, shift := 0, 0
	for {
		if pos >= len(s) {
			return 0, pos, errVLQTruncated
		}
		digit := base64Index[s[pos]]
		if digit < 0 {
			return 0, pos, errVLQBadChar
		}
		pos++
		result += int(digit&vlqBaseMask) << shift
		if int(digit)&vlqContinuationBit == 0 {
			break
		}
		shift += vlqBaseShift
		if shift > 60 {
			return 0, pos, errVLQTruncated
		}
	}
	if result&1 == 1 {
		return -(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}
