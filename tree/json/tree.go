package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/grove/tree"
)

type jsonTree struct {
	Label string    `json:"label,omitempty"`
	Root  *jsonNode `json:"root"`
}

type jsonNode struct {
	IsLeaf           *bool            `json:"is_leaf"`
	Prediction       *json.RawMessage `json:"prediction,omitempty"`
	SplittingFeature string           `json:"splitting_feature,omitempty"`
	Left             *jsonNode        `json:"left,omitempty"`
	Right            *jsonNode        `json:"right,omitempty"`
}

/*
WriteJSONTree takes a pointer to a tree.Tree and an io.Writer and
serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "label": a string with the name of the label the tree predicts
* "root": the root node of the tree.
Every node is serialized as a JSON object with an "is_leaf" boolean
field. Leaves add a "prediction" field with their prediction, internal
nodes a "splitting_feature" string field and "left" and "right" fields
with their subtrees.
An error is returned if the tree is malformed or cannot be serialized
or written onto the io.Writer.
*/
func WriteJSONTree(t *tree.Tree, w io.Writer) error {
	err := t.Validate()
	if err != nil {
		return err
	}
	jn, err := marshalNode(t.Root)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(&jsonTree{Label: t.Label, Root: jn})
}

/*
ReadJSONTree takes an io.Reader and unmarshals its contents into
a new tree.Tree, expecting the format generated by WriteJSONTree.
An error is returned if the JSON cannot be read from the io.Reader.
If it can be read but a node in it is neither a well-formed leaf nor
a well-formed internal node, the returned error wraps tree.ErrMalformedTree.
*/
func ReadJSONTree(r io.Reader) (*tree.Tree, error) {
	jt := &jsonTree{}
	err := json.NewDecoder(r).Decode(jt)
	if err != nil {
		return nil, err
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("%w: no root node available", tree.ErrMalformedTree)
	}
	root, err := unmarshalNode(jt.Root, "root")
	if err != nil {
		return nil, err
	}
	return tree.New(root, jt.Label), nil
}

/*
ReadJSONTreeFromFile takes a filepath string, opens the file and uses
ReadJSONTree to return the tree read from it or an error.
*/
func ReadJSONTreeFromFile(filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := ReadJSONTree(f)
	if err != nil {
		return nil, fmt.Errorf("parsing tree in JSON from %s: %w", filepath, err)
	}
	return t, nil
}

func marshalNode(n tree.Node) (*jsonNode, error) {
	switch n := n.(type) {
	case *tree.Leaf:
		isLeaf := true
		p, err := json.Marshal(n.Prediction)
		if err != nil {
			return nil, fmt.Errorf("marshalling prediction %v: %v", n.Prediction, err)
		}
		rp := json.RawMessage(p)
		return &jsonNode{IsLeaf: &isLeaf, Prediction: &rp}, nil
	case *tree.Internal:
		isLeaf := false
		left, err := marshalNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := marshalNode(n.Right)
		if err != nil {
			return nil, err
		}
		return &jsonNode{IsLeaf: &isLeaf, SplittingFeature: n.Feature, Left: left, Right: right}, nil
	}
	return nil, fmt.Errorf("%w: unknown node type %T", tree.ErrMalformedTree, n)
}

func unmarshalNode(jn *jsonNode, path string) (tree.Node, error) {
	if jn.IsLeaf == nil {
		return nil, fmt.Errorf("%w: node at %s has no is_leaf field", tree.ErrMalformedTree, path)
	}
	if *jn.IsLeaf {
		if jn.SplittingFeature != "" || jn.Left != nil || jn.Right != nil {
			return nil, fmt.Errorf("%w: leaf at %s has splitting feature or subtrees", tree.ErrMalformedTree, path)
		}
		if jn.Prediction == nil {
			return nil, fmt.Errorf("%w: leaf at %s has no prediction", tree.ErrMalformedTree, path)
		}
		var p interface{}
		err := json.Unmarshal(*jn.Prediction, &p)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling prediction at %s: %v", path, err)
		}
		return tree.NewLeaf(p), nil
	}
	if jn.SplittingFeature == "" {
		return nil, fmt.Errorf("%w: internal node at %s has no splitting feature", tree.ErrMalformedTree, path)
	}
	if jn.Left == nil || jn.Right == nil {
		return nil, fmt.Errorf("%w: internal node at %s lacks a subtree", tree.ErrMalformedTree, path)
	}
	left, err := unmarshalNode(jn.Left, path+".left")
	if err != nil {
		return nil, err
	}
	right, err := unmarshalNode(jn.Right, path+".right")
	if err != nil {
		return nil, err
	}
	return tree.NewInternal(jn.SplittingFeature, left, right), nil
}
