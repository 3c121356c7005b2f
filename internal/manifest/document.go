package manifest

import "gopkg.in/yaml.v3"

// document is the on-disk manifest layout
type document struct {
	Modules    map[string]moduleEntry `yaml:"modules"`
	Classes    []classEntry           `yaml:"classes"`
	Interfaces []classEntry           `yaml:"interfaces"`
}

type moduleEntry struct {
	Class            string   `yaml:"class"`
	OnlyActions      []string `yaml:"only_actions,omitempty"`
	ExcludeActions   []string `yaml:"exclude_actions,omitempty"`
	IncludeInherited *bool    `yaml:"include_inherited,omitempty"`
}

// classEntry describes a class or, under interfaces, an interface. For an
// interface Interfaces lists the interfaces it extends.
type classEntry struct {
	Name       string        `yaml:"name"`
	Parent     string        `yaml:"parent,omitempty"`
	Interfaces []string      `yaml:"interfaces,omitempty"`
	Methods    []methodEntry `yaml:"methods,omitempty"`
}

type methodEntry struct {
	Name   string       `yaml:"name"`
	Doc    string       `yaml:"doc,omitempty"`
	Static bool         `yaml:"static,omitempty"`
	Params []paramEntry `yaml:"params,omitempty"`
	Return string       `yaml:"return,omitempty"`
}

// paramEntry describes a parameter. Default holds the literal exactly as the
// source declares it, so string defaults keep their quotes: default: '"body"'.
// It is a node so that a bare null is kept rather than read as "no default".
type paramEntry struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type,omitempty"`
	Default  yaml.Node `yaml:"default,omitempty"`
	Optional bool      `yaml:"optional,omitempty"`
	Variadic bool      `yaml:"variadic,omitempty"`
	ByRef    bool      `yaml:"by_ref,omitempty"`
}

func (p paramEntry) hasDefault() bool {
	return p.Default.Kind != 0
}
