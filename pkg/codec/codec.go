package codec

import (
	"fmt"

	"github.com/birdayz/a85/pkg/ascii85"
)

// Encoder turns a payload into its next representation on the way out.
type Encoder interface {
	Encode(in []byte) ([]byte, error)
}

// Decoder reverses an Encoder.
type Decoder interface {
	Decode(in []byte) ([]byte, error)
}

// Codec is a reversible pipeline stage.
type Codec interface {
	Encoder
	Decoder
}

// BypassCodec is a no-op implementation of Encoder and Decoder
type BypassCodec struct{}

func (BypassCodec) Encode(in []byte) ([]byte, error) {
	return in, nil
}

func (BypassCodec) Decode(in []byte) ([]byte, error) {
	return in, nil
}

// Ascii85Codec armours bytes as Ascii85 text.
type Ascii85Codec struct{}

func (Ascii85Codec) Encode(in []byte) ([]byte, error) {
	return ascii85.Encode(in), nil
}

func (Ascii85Codec) Decode(in []byte) ([]byte, error) {
	return ascii85.Decode(in)
}

// Stage is a named Codec inside a Pipeline.
type Stage struct {
	Name  string
	Codec Codec
}

// Pipeline chains stages. Encode runs them in order and Decode in
// reverse order, so a pipeline round-trips whenever all of its stages do.
type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Then returns a copy of p with s appended.
func (p *Pipeline) Then(s Stage) *Pipeline {
	stages := make([]Stage, 0, len(p.stages)+1)
	stages = append(stages, p.stages...)
	return &Pipeline{stages: append(stages, s)}
}

// Names lists the stage names in encode order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	return names
}

func (p *Pipeline) Encode(in []byte) ([]byte, error) {
	out := in
	for _, s := range p.stages {
		var err error
		out, err = s.Codec.Encode(out)
		if err != nil {
			return nil, fmt.Errorf("%s encode: %w", s.Name, err)
		}
	}
	return out, nil
}

func (p *Pipeline) Decode(in []byte) ([]byte, error) {
	out := in
	for i := len(p.stages) - 1; i >= 0; i-- {
		s := p.stages[i]
		var err error
		out, err = s.Codec.Decode(out)
		if err != nil {
			return nil, fmt.Errorf("%s decode: %w", s.Name, err)
		}
	}
	return out, nil
}

var (
	_ Codec = BypassCodec{}
	_ Codec = Ascii85Codec{}
	_ Codec = (*Pipeline)(nil)
)
