package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/feature"
)

// Tree represents a binary decision tree. It is composed of
// its root node and the name of the label its leaves predict.
type Tree struct {
	Root  Node
	Label string
}

// New takes a root Node and a label name and returns a tree
// with the given root that predicts the given label.
func New(root Node, label string) *Tree {
	return &Tree{root, label}
}

// Classify takes a context, a sample and classification options and
// returns the prediction for the sample according to the tree or an
// error if the prediction could not be made. See the Classify function.
func (t *Tree) Classify(ctx context.Context, s feature.Sample, opts ...ClassifyOption) (interface{}, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tree cannot classify samples")
	}
	return Classify(ctx, t.Root, s, opts...)
}

/*
Validate returns nil if every node in the tree is well-formed and
each of them is reached exactly once from the root. Otherwise it
returns an error wrapping ErrMalformedTree.
*/
func (t *Tree) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrMalformedTree)
	}
	return t.Traverse(context.Background(), false, func(context.Context, Node) error {
		return nil
	})
}

/*
Depth returns the number of internal nodes on the longest path from
the root of the tree to a leaf, or an error if the tree is malformed.
*/
func (t *Tree) Depth() (int, error) {
	err := t.Validate()
	if err != nil {
		return 0, err
	}
	return depth(t.Root), nil
}

func depth(n Node) int {
	in, ok := n.(*Internal)
	if !ok {
		return 0
	}
	l, r := depth(in.Left), depth(in.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. Left
// subtrees are always traversed before right ones.
// If the given context times out or is cancelled, the context
// error is returned. If a malformed node is found or a node is
// reached twice, an error wrapping ErrMalformedTree is returned.
// If the call to the function returns an error, the traversing
// is aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node) error) error {
	return traverse(ctx, t.Root, bottomup, make(map[Node]bool), f)
}

func traverse(ctx context.Context, n Node, bottomup bool, visited map[Node]bool, f func(context.Context, Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	err = checkNode(n)
	if err != nil {
		return err
	}
	if visited[n] {
		return fmt.Errorf("%w: node %v is reachable more than once", ErrMalformedTree, n)
	}
	visited[n] = true
	if !bottomup {
		err = f(ctx, n)
	}
	if err != nil {
		return err
	}
	if in, ok := n.(*Internal); ok {
		err = traverse(ctx, in.Left, bottomup, visited, f)
		if err != nil {
			return err
		}
		err = traverse(ctx, in.Right, bottomup, visited, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		err = f(ctx, n)
	}
	return err
}

func (t *Tree) String() string {
	err := t.Validate()
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	return subtreeString(t.Root)
}

func subtreeString(n Node) string {
	in, ok := n.(*Internal)
	if !ok {
		return fmt.Sprintf("{ %v }\n", n)
	}
	result := fmt.Sprintf("{ %v }\n|\n", in)
	result += branchString(fmt.Sprintf("%s is 0", in.Feature), in.Left, false)
	result += branchString(fmt.Sprintf("%s is not 0", in.Feature), in.Right, true)
	return result
}

func branchString(criterion string, n Node, last bool) string {
	result := fmt.Sprintf("|__%s\n", criterion)
	for _, line := range strings.Split(subtreeString(n), "\n") {
		if len(line) > 0 {
			if last {
				result = fmt.Sprintf("%s   %s\n", result, line)
			} else {
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
