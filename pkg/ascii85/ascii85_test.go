package ascii85

import (
	stdascii85 "encoding/ascii85"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	wikipediaPlain = "Man is distinguished, not only by his reason, but by this singular passion from " +
		"other animals, which is a lust of the mind, that by a perseverance of delight in " +
		"the continued and indefatigable generation of knowledge, exceeds the short " +
		"vehemence of any carnal pleasure."

	wikipediaEncoded = "9jqo^BlbD-BleB1DJ+*+F(f,q/0JhKF<GL>Cj@.4Gp$d7F!,L7@<6@)/0JDEF<G%<+EV:2F!,O<DJ+*.@<*K0@<6L(Df-\\0Ec5e;DffZ(EZee.Bl.9pF\"AGXBPCsi+DGm>@3BB/F*&OCAfu2/AKYi(DIb:@FD,*)+C]U=@3BN#EcYf8ATD3s@q?d$AftVqCh[NqF<G:8+EV:.+Cf>-FD5W8ARlolDIal(DId<j@<?3r@:F%a+D58'ATD4$Bl@l3De:,-DJs`8ARoFb/0JMK@qB4^F!,R<AKZ&-DfTqBG%G>uD.RTpAKYo'+CT/5+Cei#DII?(E,9)oF*2M7/c"
)

func TestEncodeVectors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"man", []byte("Man "), "9jqo^"},
		{"three bytes", []byte("Man"), "9jqo"},
		{"two bytes", []byte("Ma"), "9jn"},
		{"single zero", []byte{0}, "!!"},
		{"single one", []byte{1}, "!<"},
		{"single A", []byte{65}, "5l"},
		{"single 255", []byte{255}, "rr"},
		{"zero word", []byte{0, 0, 0, 0}, "!!!!!"},
		{"max word", []byte{255, 255, 255, 255}, "s8W-!"},
		{"wikipedia", []byte(wikipediaPlain), wikipediaEncoded},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, EncodeToString(tc.in))
		})
	}
}

func TestDecodeVectors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want []byte
	}{
		{"empty", "", []byte{}},
		{"man", "9jqo^", []byte("Man ")},
		{"two bytes", "9jn", []byte("Ma")},
		{"max word", "s8W-!", []byte{255, 255, 255, 255}},
		{"wikipedia", wikipediaEncoded, []byte(wikipediaPlain)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeString(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEmpty(t *testing.T) {
	require.Empty(t, Encode(nil))
	require.Empty(t, Encode([]byte{}))

	got, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRoundTripSingleBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		in := []byte{byte(b)}
		got, err := Decode(Encode(in))
		require.NoError(t, err)
		require.Equal(t, in, got, "byte %d", b)
	}
}

func TestRoundTripMaxBytes(t *testing.T) {
	// Padded final groups of all-0xff input sit closest to the 32 bit limit.
	for n := 0; n <= 16; n++ {
		in := []byte(strings.Repeat("\xff", n))
		got, err := Decode(Encode(in))
		require.NoError(t, err)
		require.Equal(t, in, got, "length %d", n)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(85))
	for n := 0; n <= 4099; n++ {
		in := make([]byte, n)
		rnd.Read(in)

		enc := Encode(in)
		require.Len(t, enc, EncodedLen(n))
		require.Equal(t, expectedLen(n), len(enc))
		for i, c := range enc {
			if c < '!' || c > 'u' {
				t.Fatalf("length %d: char %q at %d out of range", n, c, i)
			}
		}

		got, err := Decode(enc)
		require.NoError(t, err)
		require.Equal(t, in, got, "length %d", n)
		require.Len(t, got, DecodedLen(len(enc)))
	}
}

func expectedLen(n int) int {
	if n == 0 {
		return 0
	}
	groups := (n + 3) / 4
	return 5*groups - (4-n%4)%4
}

// The standard library encoder differs only by abbreviating zero groups.
func TestMatchesStandardLibrary(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for n := 0; n < 512; n++ {
		in := make([]byte, n)
		rnd.Read(in)
		if n%7 == 0 && n >= 8 {
			copy(in[4:8], []byte{0, 0, 0, 0})
		}

		buf := make([]byte, stdascii85.MaxEncodedLen(n))
		want := strings.ReplaceAll(string(buf[:stdascii85.Encode(buf, in)]), "z", "!!!!!")
		require.Equal(t, want, EncodeToString(in), "length %d", n)
	}
}

func TestDecodeInvalidChar(t *testing.T) {
	for _, tc := range []struct {
		name   string
		in     string
		offset int
	}{
		{"space", " ", 0},
		{"below range", "9jqo^9jq o", 8},
		{"above range", "9jqov", 4},
		{"newline", "9jqo^\n", 5},
		{"high bit", "9j\x80o^", 2},
		{"lone invalid", "9jqo^\x7f", 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeString(tc.in)
			require.ErrorIs(t, err, ErrInvalidChar)

			var corrupt *CorruptInputError
			require.ErrorAs(t, err, &corrupt)
			require.Equal(t, tc.offset, corrupt.Offset)
		})
	}
}

func TestDecodeOverflow(t *testing.T) {
	for _, tc := range []struct {
		name   string
		in     string
		offset int
	}{
		{"just above max", "s8W-\"", 0},
		{"all max digits", "uuuuu", 0},
		{"second group", "9jqo^uuuuu", 5},
		{"padded group", "9jqo^uu", 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeString(tc.in)
			require.ErrorIs(t, err, ErrOverflow)

			var corrupt *CorruptInputError
			require.ErrorAs(t, err, &corrupt)
			require.Equal(t, tc.offset, corrupt.Offset)
		})
	}
}

func TestDecodeLoneTrailingChar(t *testing.T) {
	got, err := DecodeString("9jqo^!")
	require.NoError(t, err)
	require.Equal(t, []byte("Man "), got)
}

func TestLengths(t *testing.T) {
	require.Equal(t, 0, EncodedLen(0))
	require.Equal(t, 2, EncodedLen(1))
	require.Equal(t, 3, EncodedLen(2))
	require.Equal(t, 4, EncodedLen(3))
	require.Equal(t, 5, EncodedLen(4))
	require.Equal(t, 7, EncodedLen(5))

	require.Equal(t, 0, DecodedLen(0))
	require.Equal(t, 0, DecodedLen(1))
	require.Equal(t, 1, DecodedLen(2))
	require.Equal(t, 4, DecodedLen(5))
	require.Equal(t, 5, DecodedLen(7))
}

func TestConcurrentUse(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			in := []byte(strings.Repeat(wikipediaPlain, i+1))
			got, err := Decode(Encode(in))
			if err != nil {
				return err
			}
			if string(got) != string(in) {
				return fmt.Errorf("round trip mismatch for %d repetitions", i+1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
