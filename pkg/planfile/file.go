package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/schema"
)

// File is a plan fixture: a space schema, the variables bound by preceding statements, and
// exactly one of a traversal or a node fetch compiled against them.
type File struct {
	Space     string         `yaml:"space"`
	Schema    Schema         `yaml:"schema"`
	Inputs    []Input        `yaml:"inputs"`
	Traversal *TraversalSpec `yaml:"traversal"`
	Fetch     *FetchSpec     `yaml:"fetch"`
}

// Schema lists the tag and edge types of the fixture's space.
type Schema struct {
	Tags  []TypeSpec `yaml:"tags"`
	Edges []TypeSpec `yaml:"edges"`
}

type TypeSpec struct {
	Name  string     `yaml:"name"`
	Props []PropSpec `yaml:"props"`
}

type PropSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Input is a variable bound before the compiled statement runs.
type Input struct {
	Var     string   `yaml:"var"`
	Columns []string `yaml:"columns"`
}

// TraversalSpec describes a GO-style walk. Steps is `N` or `M..N`; an omitted value walks one
// step.
type TraversalSpec struct {
	From     FromSpec    `yaml:"from"`
	Steps    string      `yaml:"steps"`
	Over     OverSpec    `yaml:"over"`
	Where    yaml.Node   `yaml:"where"`
	Yield    []YieldSpec `yaml:"yield"`
	Distinct bool        `yaml:"distinct"`
}

type FromSpec struct {
	Vids []yaml.Node `yaml:"vids"`
	Var  string      `yaml:"var"`
	Src  yaml.Node   `yaml:"src"`
}

type OverSpec struct {
	Edges     []string `yaml:"edges"`
	Direction string   `yaml:"direction"`
}

type YieldSpec struct {
	Alias string    `yaml:"alias"`
	Expr  yaml.Node `yaml:"expr"`
}

// FetchSpec describes the vertex fetch of a single match node pattern started from constant ids.
type FetchSpec struct {
	Vids []yaml.Node `yaml:"vids"`
	Node NodeSpec    `yaml:"node"`
}

type NodeSpec struct {
	Alias  string    `yaml:"alias"`
	Labels []string  `yaml:"labels"`
	Props  yaml.Node `yaml:"props"`
	Where  yaml.Node `yaml:"where"`
}

// Parse decodes a fixture, rejecting unknown fields.
func Parse(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var f File
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty plan file")
		}
		return nil, fmt.Errorf("unable to decode plan file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseBytes decodes a fixture held in memory.
func ParseBytes(data []byte) (*File, error) {
	return Parse(bytes.NewReader(data))
}

func (f *File) validate() error {
	if f.Space == "" {
		return fmt.Errorf("plan file must name a space")
	}
	if (f.Traversal == nil) == (f.Fetch == nil) {
		return fmt.Errorf("plan file must contain exactly one of `traversal` or `fetch`")
	}
	for _, input := range f.Inputs {
		if input.Var == "" || len(input.Columns) == 0 {
			return fmt.Errorf("input variables need a name and at least one column")
		}
	}
	return nil
}

// Definition returns the schema of the fixture's space.
func (f *File) Definition() schema.SpaceDefinition {
	return schema.SpaceDefinition{
		Name:  f.Space,
		Tags:  typeDefinitions(f.Schema.Tags),
		Edges: typeDefinitions(f.Schema.Edges),
	}
}

func typeDefinitions(specs []TypeSpec) []schema.TypeDefinition {
	defs := make([]schema.TypeDefinition, 0, len(specs))
	for _, spec := range specs {
		props := make([]schema.PropDef, 0, len(spec.Props))
		for _, prop := range spec.Props {
			props = append(props, schema.PropDef{Name: prop.Name, Type: prop.Type})
		}
		defs = append(defs, schema.TypeDefinition{Name: spec.Name, Props: props})
	}
	return defs
}

// parseSteps reads `N` or `M..N`. The empty string is a single step.
func parseSteps(value string) (m, n uint32, ranged bool, err error) {
	if value == "" {
		return 1, 1, false, nil
	}

	lower, upper, ranged := strings.Cut(value, "..")
	m, err = parseStepCount(lower)
	if err != nil {
		return 0, 0, false, err
	}
	if !ranged {
		return m, m, false, nil
	}
	n, err = parseStepCount(upper)
	if err != nil {
		return 0, 0, false, err
	}
	return m, n, true, nil
}

func parseStepCount(value string) (uint32, error) {
	count, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid step count `%s`", value)
	}
	return uint32(count), nil
}

func parseDirection(value string) (plan.Direction, error) {
	switch strings.ToLower(value) {
	case "", "out":
		return plan.DirectionOut, nil
	case "in", "reversely":
		return plan.DirectionIn, nil
	case "both", "bidirect":
		return plan.DirectionBoth, nil
	default:
		return 0, fmt.Errorf("unknown direction `%s`", value)
	}
}
