package codec

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

// treeEncoder walks a YAML node tree and emits one row pair per node.
type treeEncoder struct {
	parameterID string
	maxDepth    int
	attrs       []domain.ParameterAttribute
	values      []domain.AttributeValue
}

func (c *Codec) encodeStructured(
	raw []byte,
	parameterID string,
) ([]domain.ParameterAttribute, []domain.AttributeValue, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing yaml: %w", domain.ErrInvalidInput, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil, nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)

	switch {
	case root.Kind == 0:
		// Empty document.
		return nil, nil, nil
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return nil, nil, nil
	case root.Kind != yaml.MappingNode:
		return nil, nil, fmt.Errorf("%w: top level of structured text must be a mapping", domain.ErrInvalidInput)
	}

	e := &treeEncoder{parameterID: parameterID, maxDepth: c.maxDepth}
	if err := e.mapping(root, "", 1); err != nil {
		return nil, nil, err
	}
	return e.attrs, e.values, nil
}

func (e *treeEncoder) mapping(node *yaml.Node, parentID string, depth int) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := resolveAlias(node.Content[i])
		if err := e.emit(key.Value, parentID, node.Content[i+1], depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *treeEncoder) emit(name, parentID string, node *yaml.Node, depth int) error {
	if depth > e.maxDepth {
		return fmt.Errorf("%w: key %q at depth %d", domain.ErrMaxDepth, name, depth)
	}
	node = resolveAlias(node)

	kind, value, err := describe(node)
	if err != nil {
		return fmt.Errorf("encoding key %q: %w", name, err)
	}

	id := digest.Fields(e.parameterID, parentID, name, value)
	e.attrs = append(e.attrs, domain.ParameterAttribute{
		ParameterID:         e.parameterID,
		AttributeID:         id,
		PreviousAttributeID: parentID,
	})
	e.values = append(e.values, domain.AttributeValue{
		AttributeID: id,
		Name:        name,
		Value:       value,
		Kind:        kind,
	})

	switch node.Kind {
	case yaml.MappingNode:
		return e.mapping(node, id, depth+1)
	case yaml.SequenceNode:
		// Elements hang directly off the key node; the index is the name.
		for i, el := range node.Content {
			if err := e.emit(strconv.Itoa(i), id, el, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// describe returns the kind tag and canonical string value of a node.
func describe(node *yaml.Node) (domain.ValueKind, string, error) {
	switch node.Kind {
	case yaml.MappingNode:
		v, err := renderFlow(node)
		return domain.KindDict, v, err
	case yaml.SequenceNode:
		v, err := renderFlow(node)
		return domain.KindList, v, err
	}

	switch node.ShortTag() {
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return domain.KindInt, strconv.FormatInt(i, 10), nil
		}
	case "!!float":
		var f float64
		if err := node.Decode(&f); err == nil {
			return domain.KindFloat, strconv.FormatFloat(f, 'g', -1, 64), nil
		}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return domain.KindBool, strconv.FormatBool(b), nil
		}
	case "!!null":
		return domain.KindNull, "", nil
	}
	// Strings, and any scalar that did not convert cleanly, keep their text.
	return domain.KindString, node.Value, nil
}

// renderFlow renders a container node as single-line flow YAML.
func renderFlow(node *yaml.Node) (string, error) {
	n := *node
	n.Style = yaml.FlowStyle
	n.HeadComment, n.LineComment, n.FootComment = "", "", ""
	out, err := yaml.Marshal(&n)
	if err != nil {
		return "", fmt.Errorf("rendering container: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// treeDecoder rebuilds nested values from link and value rows.
type treeDecoder struct {
	maxDepth int
	values   map[string]domain.AttributeValue
	children map[string][]string
	visited  map[string]bool
}

func (c *Codec) decodeStructured(
	values []domain.AttributeValue,
	links []domain.ParameterAttribute,
) (map[string]any, error) {
	d := &treeDecoder{
		maxDepth: c.maxDepth,
		values:   make(map[string]domain.AttributeValue, len(values)),
		children: make(map[string][]string),
		visited:  make(map[string]bool, len(values)),
	}
	for _, v := range values {
		d.values[v.AttributeID] = v
	}

	parents := make(map[string]string, len(links))
	var roots []string
	for _, l := range links {
		if _, ok := d.values[l.AttributeID]; !ok {
			return nil, fmt.Errorf("%w: node %s has no value row", domain.ErrReconstruction, l.AttributeID)
		}
		if prev, seen := parents[l.AttributeID]; seen {
			if prev != l.PreviousAttributeID {
				return nil, fmt.Errorf("%w: node %s has two parents", domain.ErrReconstruction, l.AttributeID)
			}
			continue
		}
		parents[l.AttributeID] = l.PreviousAttributeID
		if l.IsRoot() {
			roots = append(roots, l.AttributeID)
			continue
		}
		if _, ok := d.values[l.PreviousAttributeID]; !ok {
			return nil, fmt.Errorf("%w: node %s links to unknown parent %s",
				domain.ErrReconstruction, l.AttributeID, l.PreviousAttributeID)
		}
		d.children[l.PreviousAttributeID] = append(d.children[l.PreviousAttributeID], l.AttributeID)
	}

	result := make(map[string]any, len(roots))
	for _, id := range roots {
		v, err := d.build(id, 1)
		if err != nil {
			return nil, fmt.Errorf("rebuilding %q: %w", d.values[id].Name, err)
		}
		result[d.values[id].Name] = v
	}

	if len(d.visited) != len(parents) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable from a root",
			domain.ErrReconstruction, len(parents)-len(d.visited), len(parents))
	}
	return result, nil
}

func (d *treeDecoder) build(id string, depth int) (any, error) {
	if depth > d.maxDepth {
		return nil, fmt.Errorf("%w: depth %d", domain.ErrMaxDepth, depth)
	}
	if d.visited[id] {
		return nil, fmt.Errorf("%w: cycle at node %s", domain.ErrReconstruction, id)
	}
	d.visited[id] = true

	node := d.values[id]
	kids := d.children[id]
	if len(kids) == 0 {
		return scalarValue(node), nil
	}

	if node.Kind == domain.KindList {
		type indexed struct {
			index int
			id    string
		}
		ordered := make([]indexed, 0, len(kids))
		for _, kid := range kids {
			idx, err := strconv.Atoi(d.values[kid].Name)
			if err != nil {
				return nil, fmt.Errorf("%w: list element %s has index %q",
					domain.ErrReconstruction, kid, d.values[kid].Name)
			}
			ordered = append(ordered, indexed{index: idx, id: kid})
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

		out := make([]any, 0, len(ordered))
		for _, el := range ordered {
			v, err := d.build(el.id, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := make(map[string]any, len(kids))
	for _, kid := range kids {
		v, err := d.build(kid, depth+1)
		if err != nil {
			return nil, err
		}
		out[d.values[kid].Name] = v
	}
	return out, nil
}

// scalarValue converts a stored leaf back to its tagged type.
// A value that fails to convert is returned as its stored string.
func scalarValue(v domain.AttributeValue) any {
	switch v.Kind {
	case domain.KindInt:
		if i, err := strconv.ParseInt(v.Value, 10, 0); err == nil {
			return int(i)
		}
	case domain.KindFloat:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
	case domain.KindBool:
		if b, err := strconv.ParseBool(v.Value); err == nil {
			return b
		}
	case domain.KindNull:
		return nil
	case domain.KindList, domain.KindDict:
		var out any
		if err := yaml.Unmarshal([]byte(v.Value), &out); err == nil {
			return normalizeEmpty(v.Kind, out)
		}
	}
	return v.Value
}

// normalizeEmpty makes an empty parsed container match its kind,
// since "[]" and "{}" may parse to nil.
func normalizeEmpty(kind domain.ValueKind, v any) any {
	if v != nil {
		return v
	}
	if kind == domain.KindList {
		return []any{}
	}
	return map[string]any{}
}

// renderStructured writes a reconstructed mapping as block YAML.
func renderStructured(content map[string]any) ([]byte, error) {
	out, err := yaml.Marshal(keepFloats(content))
	if err != nil {
		return nil, errors.Join(domain.ErrReconstruction, fmt.Errorf("rendering yaml: %w", err))
	}
	return out, nil
}

// yamlFloat renders a float so that it reads back as a float.
// yaml.v3 writes float64(3) as "3", which parses as an int.
type yamlFloat float64

func (f yamlFloat) MarshalYAML() (any, error) {
	v := float64(f)
	var s string
	switch {
	case math.IsInf(v, 1):
		s = ".inf"
	case math.IsInf(v, -1):
		s = "-.inf"
	case math.IsNaN(v):
		s = ".nan"
	default:
		s = strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}, nil
}

func keepFloats(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			out[k] = keepFloats(el)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = keepFloats(el)
		}
		return out
	case float64:
		return yamlFloat(x)
	default:
		return v
	}
}
