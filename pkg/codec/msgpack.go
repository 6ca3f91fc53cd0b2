package codec

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackCodec converts JSON text to msgpack on Encode and back to JSON on
// Decode.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(in []byte) ([]byte, error) {
	var obj any
	if err := json.Unmarshal(in, &obj); err != nil {
		return nil, fmt.Errorf("input is not JSON: %w", err)
	}
	return msgpack.Marshal(obj)
}

func (MsgPackCodec) Decode(in []byte) ([]byte, error) {
	var obj any
	if err := msgpack.Unmarshal(in, &obj); err != nil {
		return nil, fmt.Errorf("could not decode msgpack data: %w", err)
	}
	return json.Marshal(obj)
}
