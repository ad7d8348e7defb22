package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document represents a full step definition file.
type Document struct {
	Version  string     `yaml:"version" json:"version" validate:"required,semver"`
	Defaults Defaults   `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Steps    []StepDecl `yaml:"steps" json:"steps" validate:"required,min=1,dive"`
}

// Defaults lists exception types the framework adds to every concrete step after resolution.
type Defaults struct {
	Skippable []string `yaml:"skippable,omitempty" json:"skippable,omitempty" validate:"omitempty,dive,class_name"`
	Fatal     []string `yaml:"fatal,omitempty" json:"fatal,omitempty" validate:"omitempty,dive,class_name"`
}

// StepDecl declares one step and the collections it contributes on top of its parent.
type StepDecl struct {
	Name     string `yaml:"name" json:"name" validate:"required,step_name"`
	Parent   string `yaml:"parent,omitempty" json:"parent,omitempty" validate:"omitempty,step_name"`
	Abstract bool   `yaml:"abstract,omitempty" json:"abstract,omitempty"`

	Skippable      ExceptionsDecl `yaml:"skippable,omitempty" json:"skippable,omitempty"`
	Fatal          ExceptionsDecl `yaml:"fatal,omitempty" json:"fatal,omitempty"`
	Streams        RefsDecl       `yaml:"streams,omitempty" json:"streams,omitempty"`
	RetryListeners RefsDecl       `yaml:"retry_listeners,omitempty" json:"retry_listeners,omitempty"`
}

// ExceptionsDecl is a classifier collection. Merge defaults to true when absent.
//
// Besides the mapping form it accepts a bare list of class names, which includes each
// class and merges with the parent.
type ExceptionsDecl struct {
	Merge   *bool       `yaml:"merge,omitempty" json:"merge,omitempty"`
	Classes []ClassDecl `yaml:"classes,omitempty" json:"classes,omitempty" validate:"omitempty,dive"`
}

// ClassDecl names one exception class. A bare string is shorthand for an inclusion.
type ClassDecl struct {
	Class   string `yaml:"class" json:"class" validate:"required,class_name"`
	Exclude bool   `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// RefsDecl is an ordered component reference collection. Merge defaults to true when absent.
// A bare list of names is accepted as shorthand.
type RefsDecl struct {
	Merge *bool    `yaml:"merge,omitempty" json:"merge,omitempty"`
	Refs  []string `yaml:"refs,omitempty" json:"refs,omitempty" validate:"omitempty,dive,ref_name"`
}

// MergeEnabled reports the effective merge flag.
func (d ExceptionsDecl) MergeEnabled() bool {
	return d.Merge == nil || *d.Merge
}

// MergeEnabled reports the effective merge flag.
func (d RefsDecl) MergeEnabled() bool {
	return d.Merge == nil || *d.Merge
}

// UnmarshalYAML accepts either the mapping form or a bare sequence of classes.
func (d *ExceptionsDecl) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var classes []ClassDecl
		if err := value.Decode(&classes); err != nil {
			return err
		}
		*d = ExceptionsDecl{Classes: classes}
		return nil
	}

	if err := checkYAMLKeys(value, "config.ExceptionsDecl", "merge", "classes"); err != nil {
		return err
	}

	type rawExceptions ExceptionsDecl
	var temp rawExceptions
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*d = ExceptionsDecl(temp)
	return nil
}

// UnmarshalYAML accepts a bare class name or the mapping form.
func (c *ClassDecl) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = ClassDecl{Class: value.Value}
		return nil
	}

	if err := checkYAMLKeys(value, "config.ClassDecl", "class", "exclude"); err != nil {
		return err
	}

	type rawClass ClassDecl
	var temp rawClass
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*c = ClassDecl(temp)
	return nil
}

// UnmarshalYAML accepts either the mapping form or a bare sequence of names.
func (d *RefsDecl) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var refs []string
		if err := value.Decode(&refs); err != nil {
			return err
		}
		*d = RefsDecl{Refs: refs}
		return nil
	}

	if err := checkYAMLKeys(value, "config.RefsDecl", "merge", "refs"); err != nil {
		return err
	}

	type rawRefs RefsDecl
	var temp rawRefs
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*d = RefsDecl(temp)
	return nil
}

// checkYAMLKeys rejects mapping keys outside allowed. Node.Decode does not apply the
// decoder's KnownFields setting, so collection mappings are checked here.
func checkYAMLKeys(value *yaml.Node, typeName string, allowed ...string) error {
	if value.Kind != yaml.MappingNode {
		return nil
	}

	var problems []string
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		known := false
		for _, name := range allowed {
			if key.Value == name {
				known = true
				break
			}
		}
		if !known {
			problems = append(problems, fmt.Sprintf("line %d: field %s not found in type %s", key.Line, key.Value, typeName))
		}
	}
	if len(problems) > 0 {
		return &yaml.TypeError{Errors: problems}
	}
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON documents.
func (d *ExceptionsDecl) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		var classes []ClassDecl
		if err := json.Unmarshal(data, &classes); err != nil {
			return nestedJSON(err)
		}
		*d = ExceptionsDecl{Classes: classes}
		return nil
	}

	type rawExceptions ExceptionsDecl
	var temp rawExceptions
	if err := strictJSON(data, &temp); err != nil {
		return nestedJSON(err)
	}
	*d = ExceptionsDecl(temp)
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON documents.
func (c *ClassDecl) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return nestedJSON(err)
		}
		*c = ClassDecl{Class: name}
		return nil
	}

	type rawClass ClassDecl
	var temp rawClass
	if err := strictJSON(data, &temp); err != nil {
		return nestedJSON(err)
	}
	*c = ClassDecl(temp)
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON documents.
func (d *RefsDecl) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		var refs []string
		if err := json.Unmarshal(data, &refs); err != nil {
			return nestedJSON(err)
		}
		*d = RefsDecl{Refs: refs}
		return nil
	}

	type rawRefs RefsDecl
	var temp rawRefs
	if err := strictJSON(data, &temp); err != nil {
		return nestedJSON(err)
	}
	*d = RefsDecl(temp)
	return nil
}

// nestedJSONError wraps an error raised while decoding a collection value. Offsets inside
// it are relative to that value, not to the file.
type nestedJSONError struct {
	err error
}

func (e *nestedJSONError) Error() string {
	return e.err.Error()
}

func (e *nestedJSONError) Unwrap() error {
	return e.err
}

func nestedJSON(err error) error {
	var nested *nestedJSONError
	if errors.As(err, &nested) {
		return err
	}
	return &nestedJSONError{err: err}
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func strictJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
