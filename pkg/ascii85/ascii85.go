// Package ascii85 implements the plain Ascii85 (base-85) encoding.
//
// Every 4 input bytes become 5 characters in the range '!' to 'u'. A short
// final group is zero-filled before encoding and the characters standing
// for the filler are dropped again, so the output carries no padding.
// Unlike encoding/ascii85 there is no 'z' shorthand for zero groups and no
// "<~ ~>" framing.
//
// All functions are pure and safe for concurrent use.
package ascii85

import (
	"errors"
	"fmt"
)

const (
	minChar = '!'
	maxChar = 'u'

	radix    = 85
	maxDigit = radix - 1

	wordSize  = 4
	groupSize = 5

	maxWord = 1<<32 - 1
)

var (
	ErrInvalidChar = errors.New("ascii85: invalid character")
	ErrOverflow    = errors.New("ascii85: group value exceeds 32 bits")
)

// CorruptInputError reports the input offset at which Decode gave up. It
// unwraps to ErrInvalidChar or ErrOverflow.
type CorruptInputError struct {
	Offset int
	Err    error
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("%v at input byte %d", e.Err, e.Offset)
}

func (e *CorruptInputError) Unwrap() error {
	return e.Err
}

// EncodedLen returns the length of the encoding of n source bytes.
func EncodedLen(n int) int {
	if n == 0 {
		return 0
	}
	groups := (n + wordSize - 1) / wordSize
	return groups*groupSize - encodePad(n)
}

// DecodedLen returns the length of the decoding of n encoded bytes.
func DecodedLen(n int) int {
	if n == 0 {
		return 0
	}
	groups := (n + groupSize - 1) / groupSize
	return groups*wordSize - decodePad(n)
}

// encodePad is the number of zero bytes needed to fill the last word.
func encodePad(n int) int {
	return (wordSize - n%wordSize) % wordSize
}

// decodePad is the number of maximum digits needed to fill the last group.
func decodePad(n int) int {
	return (groupSize - n%groupSize) % groupSize
}

// Encode returns the Ascii85 encoding of src.
func Encode(src []byte) []byte {
	pad := encodePad(len(src))
	dst := make([]byte, 0, EncodedLen(len(src))+pad)

	var group [groupSize]byte
	for len(src) > 0 {
		n := min(len(src), wordSize)

		// Big-endian; missing low-order bytes stay zero.
		var word uint32
		for i := 0; i < wordSize; i++ {
			word <<= 8
			if i < n {
				word |= uint32(src[i])
			}
		}

		for i := groupSize - 1; i >= 0; i-- {
			group[i] = byte(word%radix) + minChar
			word /= radix
		}
		dst = append(dst, group[:]...)
		src = src[n:]
	}

	return dst[:len(dst)-pad]
}

// EncodeToString returns the Ascii85 encoding of src as a string.
func EncodeToString(src []byte) string {
	return string(Encode(src))
}

// Decode returns the bytes represented by the Ascii85 text in src.
//
// Characters outside '!'..'u' and groups whose value does not fit in 32
// bits are rejected with a *CorruptInputError.
func Decode(src []byte) ([]byte, error) {
	pad := decodePad(len(src))
	dst := make([]byte, 0, DecodedLen(len(src))+pad)

	for off := 0; off < len(src); off += groupSize {
		end := min(off+groupSize, len(src))

		// Accumulate in 64 bits so an out-of-range group is detected
		// rather than wrapped.
		var value uint64
		for i := off; i < off+groupSize; i++ {
			digit := uint64(maxDigit)
			if i < end {
				c := src[i]
				if c < minChar || c > maxChar {
					return nil, &CorruptInputError{Offset: i, Err: ErrInvalidChar}
				}
				digit = uint64(c - minChar)
			}
			value = value*radix + digit
		}
		if value > maxWord {
			return nil, &CorruptInputError{Offset: off, Err: ErrOverflow}
		}

		word := uint32(value)
		dst = append(dst, byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
	}

	return dst[:len(dst)-pad], nil
}

// DecodeString returns the bytes represented by the Ascii85 string s.
func DecodeString(s string) ([]byte, error) {
	return Decode([]byte(s))
}
