package tree

import (
	"fmt"

	"github.com/pbanos/grove/feature"
)

/*
Node is a node of a decision tree. It is either a *Leaf or an *Internal
node, no other implementations exist.
*/
type Node interface {
	node()
}

/*
Leaf is a node of the tree without subtrees. It carries the prediction
for samples that reach it.
*/
type Leaf struct {
	// The prediction returned for samples that reach this leaf. It is
	// opaque to the tree and returned verbatim.
	Prediction interface{}
}

/*
Internal is a node of the tree with exactly two subtrees. Samples
whose value for Feature equals 0 continue on the Left subtree, the
rest on the Right one.
*/
type Internal struct {
	// The name of the feature to ask about on the sample being classified
	Feature string
	// The subtree for samples satisfying the criterion of the node
	Left Node
	// The subtree for samples that do not satisfy the criterion of the node
	Right Node
}

// NewLeaf returns a Leaf node with the given prediction.
func NewLeaf(prediction interface{}) *Leaf {
	return &Leaf{prediction}
}

// NewInternal returns an Internal node splitting on the given feature
// with the given left and right subtrees.
func NewInternal(feature string, left, right Node) *Internal {
	return &Internal{feature, left, right}
}

func (*Leaf) node()     {}
func (*Internal) node() {}

/*
Criterion returns the feature.Criterion that samples must satisfy to
continue on the left subtree.
*/
func (in *Internal) Criterion() feature.Criterion {
	return feature.NewZeroCriterion(in.Feature)
}

func (l *Leaf) String() string {
	return fmt.Sprintf("%v", l.Prediction)
}

func (in *Internal) String() string {
	return fmt.Sprintf("split on %s", in.Feature)
}

// checkNode returns an error wrapping ErrMalformedTree if n is
// neither a well-formed *Leaf nor a well-formed *Internal node.
// Subtrees are not checked.
func checkNode(n Node) error {
	switch n := n.(type) {
	case *Leaf:
		if n == nil {
			return fmt.Errorf("%w: nil leaf", ErrMalformedTree)
		}
		if n.Prediction == nil {
			return fmt.Errorf("%w: leaf without prediction", ErrMalformedTree)
		}
	case *Internal:
		if n == nil {
			return fmt.Errorf("%w: nil internal node", ErrMalformedTree)
		}
		if n.Feature == "" {
			return fmt.Errorf("%w: internal node without splitting feature", ErrMalformedTree)
		}
		if n.Left == nil {
			return fmt.Errorf("%w: internal node on %q without left subtree", ErrMalformedTree, n.Feature)
		}
		if n.Right == nil {
			return fmt.Errorf("%w: internal node on %q without right subtree", ErrMalformedTree, n.Feature)
		}
	case nil:
		return fmt.Errorf("%w: nil node", ErrMalformedTree)
	default:
		return fmt.Errorf("%w: unknown node type %T", ErrMalformedTree, n)
	}
	return nil
}
