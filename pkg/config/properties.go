package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
)

// Keys understood by ImportProperties.
const (
	PropInputMode    = "input.mode"
	PropOutputFormat = "output.format"
	PropCompression  = "compression"
	PropMsgPack      = "msgpack"
	PropProtoInclude = "proto.include"
	PropProtoExclude = "proto.exclude"
	PropProtoType    = "proto.type"
	PropConcurrency  = "concurrency"
)

var knownProperties = map[string]bool{
	PropInputMode:    true,
	PropOutputFormat: true,
	PropCompression:  true,
	PropMsgPack:      true,
	PropProtoInclude: true,
	PropProtoExclude: true,
	PropProtoType:    true,
	PropConcurrency:  true,
}

// ImportProperties reads a Java-style .properties file into a profile
// called name. Unknown keys are rejected so typos do not go unnoticed.
func ImportProperties(path, name string) (*Profile, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	for _, key := range p.Keys() {
		if !knownProperties[key] {
			return nil, fmt.Errorf("unsupported property %q in %s", key, path)
		}
	}

	profile := &Profile{
		Name:        name,
		InputMode:   p.GetString(PropInputMode, ""),
		Output:      p.GetString(PropOutputFormat, ""),
		Compression: p.GetString(PropCompression, ""),
	}

	if v, ok := p.Get(PropMsgPack); ok {
		profile.MsgPack, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", PropMsgPack, err)
		}
	}
	if v, ok := p.Get(PropConcurrency); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", PropConcurrency, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", PropConcurrency)
		}
		profile.Concurrency = int(n)
	}

	include := splitList(p.GetString(PropProtoInclude, ""))
	exclude := splitList(p.GetString(PropProtoExclude, ""))
	protoType := p.GetString(PropProtoType, "")
	if len(include) > 0 || len(exclude) > 0 || protoType != "" {
		profile.Proto = &Proto{
			Include: include,
			Exclude: exclude,
			Type:    protoType,
		}
	}

	return profile, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
