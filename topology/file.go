package topology

import (
	"errors"
	"fmt"
	"os"

	"github.com/hugolhafner/go-pushgraph/node"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrUnknownSinkKind = errors.New("unknown sink kind")
)

const DefaultSinkKind = "printer"

// NodeDef declares one node of a topology file.
type NodeDef struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Parents []string `yaml:"parents"`
	// Sink selects the SinkFactory for sink nodes, DefaultSinkKind when empty.
	Sink string `yaml:"sink"`
}

// File is a topology described in YAML:
//
//	nodes:
//	  - {name: Source, type: source}
//	  - {name: A, type: connector, parents: [Source]}
//	  - {name: Sink, type: sink, parents: [A], sink: printer}
type File struct {
	Nodes []NodeDef `yaml:"nodes"`
}

func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing topology file: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topology file: %w", err)
	}
	return ParseFile(data)
}

// Builder declares every node of f in file order. Sink kinds are looked up
// in sinks.
func (f *File) Builder(sinks map[string]SinkFactory, opts ...node.Option) (*Builder, error) {
	b := NewBuilder(opts...)

	for _, def := range f.Nodes {
		switch def.Type {
		case "source":
			b.AddSource(def.Name)
			for _, parent := range def.Parents {
				b.Connect(parent, def.Name)
			}
		case "connector":
			b.AddConnector(def.Name, def.Parents...)
		case "sink":
			kind := def.Sink
			if kind == "" {
				kind = DefaultSinkKind
			}
			factory, ok := sinks[kind]
			if !ok {
				return nil, fmt.Errorf("%w: %q for node %s", ErrUnknownSinkKind, kind, def.Name)
			}
			b.AddSink(def.Name, factory, def.Parents...)
		default:
			return nil, fmt.Errorf("%w: %q for node %s", ErrUnknownNodeType, def.Type, def.Name)
		}
	}

	return b, nil
}
