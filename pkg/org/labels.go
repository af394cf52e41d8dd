package org

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Labels is a step input: a single label or a list of them.
type Labels []string

func (l *Labels) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = Labels{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = Labels(list)
		return nil
	}
	return errors.Errorf("line %d: input must be a label or a list of labels", node.Line)
}

// MarshalYAML writes a single label as a scalar.
func (l Labels) MarshalYAML() (interface{}, error) {
	if len(l) == 1 {
		return l[0], nil
	}
	return []string(l), nil
}
