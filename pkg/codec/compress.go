package codec

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

const (
	CompressionNone = ""
	CompressionS2   = "s2"
	CompressionZstd = "zstd"
)

// Compressions lists the names accepted by NewCompression.
var Compressions = []string{CompressionS2, CompressionZstd}

// NewCompression returns the compression stage for name. The empty name
// yields a BypassCodec.
func NewCompression(name string) (Codec, error) {
	switch name {
	case CompressionNone:
		return BypassCodec{}, nil
	case CompressionS2:
		return S2Codec{}, nil
	case CompressionZstd:
		return ZstdCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q, must be one of: s2, zstd", name)
	}
}

type S2Codec struct{}

func (S2Codec) Encode(in []byte) ([]byte, error) {
	return s2.Encode(nil, in), nil
}

func (S2Codec) Decode(in []byte) ([]byte, error) {
	return s2.Decode(nil, in)
}

// ZstdCodec builds its encoder and decoder per call; both are closed
// before returning so no background goroutines outlive the call.
type ZstdCodec struct{}

func (ZstdCodec) Encode(in []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

func (ZstdCodec) Decode(in []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(in, nil)
}
