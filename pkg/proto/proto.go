package proto

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// DescriptorRegistry holds the compiled .proto files found below a set of
// import paths.
type DescriptorRegistry struct {
	files linker.Files
}

// NewDescriptorRegistry compiles every .proto file below importPaths,
// skipping files whose path relative to their import path starts with one
// of exclusions.
func NewDescriptorRegistry(importPaths []string, exclusions []string) (*DescriptorRegistry, error) {
	var protoFiles []string

	for _, importPath := range importPaths {
		err := filepath.WalkDir(importPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".proto") {
				return nil
			}
			rel, err := filepath.Rel(importPath, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			for _, exclusion := range exclusions {
				if strings.HasPrefix(rel, exclusion) {
					return nil
				}
			}
			protoFiles = append(protoFiles, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", importPath, err)
		}
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
	}

	files, err := compiler.Compile(context.Background(), protoFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	return &DescriptorRegistry{files: files}, nil
}

// Codec returns a codec for the fully qualified message type msgType.
func (d *DescriptorRegistry) Codec(msgType string) (*Codec, error) {
	fullName := protoreflect.FullName(msgType)
	if !fullName.IsValid() {
		return nil, fmt.Errorf("invalid protobuf type name: %s", msgType)
	}

	messageType, err := d.files.AsResolver().FindMessageByName(fullName)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup protobuf message type: %w", err)
	}

	return &Codec{
		resolver:          d.files.AsResolver(),
		messageDescriptor: messageType.Descriptor(),
	}, nil
}

// Codec converts JSON to protobuf wire format on Encode and back on
// Decode.
type Codec struct {
	resolver          linker.Resolver
	messageDescriptor protoreflect.MessageDescriptor
}

func (c *Codec) Encode(text []byte) ([]byte, error) {
	dynamicMessage := dynamicpb.NewMessage(c.messageDescriptor)

	err := protojson.UnmarshalOptions{
		DiscardUnknown: true,
		Resolver:       c.resolver,
	}.Unmarshal(text, dynamicMessage)
	if err != nil {
		return nil, fmt.Errorf("parse input JSON as proto type %v: %w", c.messageDescriptor.FullName(), err)
	}

	return proto.Marshal(dynamicMessage)
}

func (c *Codec) Decode(raw []byte) ([]byte, error) {
	dynamicMessage := dynamicpb.NewMessage(c.messageDescriptor)

	if err := (proto.UnmarshalOptions{Resolver: c.resolver}).Unmarshal(raw, dynamicMessage); err != nil {
		return nil, fmt.Errorf("unmarshal proto type %v: %w", c.messageDescriptor.FullName(), err)
	}

	return protojson.MarshalOptions{
		UseProtoNames: true,
		Resolver:      c.resolver,
	}.Marshal(dynamicMessage)
}
