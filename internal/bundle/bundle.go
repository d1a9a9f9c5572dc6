// Package bundle loads functions and their contracts from a YAML file whose
// bodies and conditions are written in Go syntax.
package bundle

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"speclock/internal/contract"
	"speclock/internal/translator"
)

// File is the on-disk layout:
//
//	constants:
//	  CAP: "100"
//	functions:
//	  - name: subsidy
//	    params: [{name: height, type: u64}]
//	    returns: u64
//	    body: |
//	      return INITIAL_SUBSIDY >> (height / HALVING_INTERVAL)
//	    requires: ["height >= 0"]
//	    ensures:
//	      - condition: result <= INITIAL_SUBSIDY
//	        comment: never exceeds the initial subsidy
type File struct {
	Constants map[string]string `yaml:"constants"`
	Functions []FunctionSpec    `yaml:"functions"`
}

type FunctionSpec struct {
	Name     string         `yaml:"name"`
	Params   []ParamSpec    `yaml:"params"`
	Returns  string         `yaml:"returns"`
	Body     string         `yaml:"body"`
	Requires []ContractSpec `yaml:"requires"`
	Ensures  []ContractSpec `yaml:"ensures"`
}

type ParamSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ContractSpec is written either as a bare condition or as a mapping with a
// condition and a comment.
type ContractSpec struct {
	Condition string `yaml:"condition"`
	Comment   string `yaml:"comment"`
}

func (c *ContractSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Condition = node.Value
		return nil
	}
	type plain ContractSpec
	return node.Decode((*plain)(c))
}

type Bundle struct {
	Functions []*contract.Function
	// Constants holds the constants the file declares, nil when it has none.
	Constants translator.Constants
}

func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read bundle %s", path)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle %s", path)
	}
	return b, nil
}

func Parse(data []byte) (*Bundle, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "yaml")
	}
	b := &Bundle{}
	if len(file.Constants) > 0 {
		b.Constants = make(translator.Constants, len(file.Constants))
		for name, text := range file.Constants {
			v, err := translator.ParseInt(text)
			if err != nil {
				return nil, errors.Wrapf(err, "constant %s", name)
			}
			b.Constants[name] = v
		}
	}
	seen := make(map[string]struct{})
	for i, spec := range file.Functions {
		if spec.Name == "" {
			return nil, errors.Errorf("function #%d has no name", i+1)
		}
		if _, ok := seen[spec.Name]; ok {
			return nil, errors.Errorf("function %s declared twice", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		fn, err := spec.build()
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", spec.Name)
		}
		b.Functions = append(b.Functions, fn)
	}
	return b, nil
}

func (spec FunctionSpec) build() (*contract.Function, error) {
	sig := &contract.Signature{Returns: spec.Returns}
	for _, p := range spec.Params {
		if p.Name == "" || p.Type == "" {
			return nil, errors.Errorf("parameter needs a name and a type")
		}
		sig.Params = append(sig.Params, contract.Param{Name: p.Name, Type: p.Type})
	}
	body, err := ParseBody(spec.Body)
	if err != nil {
		return nil, err
	}
	fn := &contract.Function{Name: spec.Name, Signature: sig, Body: body}
	for _, group := range []struct {
		kind  contract.Kind
		specs []ContractSpec
	}{
		{contract.KindRequires, spec.Requires},
		{contract.KindEnsures, spec.Ensures},
	} {
		for _, c := range group.specs {
			cond, err := ParseExpr(c.Condition)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", group.kind)
			}
			fn.Contracts = append(fn.Contracts, contract.Contract{Kind: group.kind, Condition: cond, Comment: c.Comment})
		}
	}
	return fn, nil
}
