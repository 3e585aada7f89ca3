package tree

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pbanos/grove/feature"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// foreignNode satisfies Node through the embedded leaf without
// being one of the package's node types
type foreignNode struct{ *Leaf }

type recordingTracer struct {
	steps []string
}

func (rt *recordingTracer) Split(feature string, value float64) {
	rt.steps = append(rt.steps, fmt.Sprintf("Split on %s = %v", feature, value))
}

func (rt *recordingTracer) Predict(prediction interface{}) {
	rt.steps = append(rt.steps, fmt.Sprintf("At leaf, predicting %v", prediction))
}

func twoLevelTree() *Internal {
	return NewInternal("f", NewLeaf("A"), NewLeaf("B"))
}

// loanTree splits on term first and on credit for long terms.
func loanTree() *Tree {
	return New(NewInternal("term",
		NewLeaf(+1),
		NewInternal("credit",
			NewLeaf(-1),
			NewLeaf(+1),
		),
	), "safe_loans")
}

func TestClassify_SingleLeaf(t *testing.T) {
	leaf := NewLeaf("P")
	for _, s := range []feature.Vector{{}, {"f": 0}, {"f": 3, "g": -1}} {
		p, err := Classify(context.Background(), leaf, s)
		require.NoError(t, err)
		assert.Equal(t, "P", p)

		rt := &recordingTracer{}
		p, err = Classify(context.Background(), leaf, s, Annotate(rt))
		require.NoError(t, err)
		assert.Equal(t, "P", p)
		assert.Equal(t, []string{"At leaf, predicting P"}, rt.steps)
	}
}

func TestClassify_TwoLevel(t *testing.T) {
	root := twoLevelTree()

	p, err := Classify(context.Background(), root, feature.Vector{"f": 0})
	require.NoError(t, err)
	assert.Equal(t, "A", p)

	p, err = Classify(context.Background(), root, feature.Vector{"f": 1})
	require.NoError(t, err)
	assert.Equal(t, "B", p)

	p, err = Classify(context.Background(), root, feature.Vector{"f": -2.5})
	require.NoError(t, err)
	assert.Equal(t, "B", p)
}

func TestClassify_MissingFeature(t *testing.T) {
	p, err := Classify(context.Background(), twoLevelTree(), feature.Vector{"g": 0})
	require.Error(t, err)
	assert.Nil(t, p)

	var mfe *MissingFeatureError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "f", mfe.Feature)
	var me *feature.MissingError
	assert.True(t, errors.As(err, &me))
}

func TestClassify_Annotate(t *testing.T) {
	rt := &recordingTracer{}
	p, err := loanTree().Classify(context.Background(), feature.Vector{"term": 1, "credit": 0}, Annotate(rt))
	require.NoError(t, err)
	assert.Equal(t, -1, p)
	assert.Equal(t, []string{
		"Split on term = 1",
		"Split on credit = 0",
		"At leaf, predicting -1",
	}, rt.steps)
}

func TestClassify_NilTracer(t *testing.T) {
	p, err := Classify(context.Background(), twoLevelTree(), feature.Vector{"f": 0}, Annotate(nil))
	require.NoError(t, err)
	assert.Equal(t, "A", p)
}

func TestClassify_LogTracer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	_, err := Classify(context.Background(), twoLevelTree(), feature.Vector{"f": 1}, Annotate(LogTracer(logger)))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"feature":"f"`)
	assert.Contains(t, out, `"message":"Split on f = 1"`)
	assert.Contains(t, out, `"prediction":"B"`)
	assert.Contains(t, out, `"message":"At leaf, predicting B"`)
}

func TestClassify_Malformed(t *testing.T) {
	cases := map[string]Node{
		"nil node":        nil,
		"nil leaf":        (*Leaf)(nil),
		"nil internal":    (*Internal)(nil),
		"no prediction":   NewInternal("f", NewLeaf(nil), NewLeaf("B")),
		"unknown type":    foreignNode{NewLeaf(1)},
		"no feature":      NewInternal("", NewLeaf(1), NewLeaf(2)),
		"no left":         NewInternal("f", nil, NewLeaf(2)),
		"no right":        NewInternal("f", NewLeaf(1), nil),
		"deep no subtree": NewInternal("f", NewInternal("g", NewLeaf(1), nil), NewLeaf(2)),
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(context.Background(), n, feature.Vector{"f": 0, "g": 1})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedTree))
		})
	}
}

func TestClassify_MaxDepth(t *testing.T) {
	root := NewInternal("f", NewInternal("f", NewLeaf("deep"), NewLeaf("x")), NewLeaf("y"))
	_, err := Classify(context.Background(), root, feature.Vector{"f": 0}, MaxDepth(1))
	assert.Equal(t, ErrMaxDepthExceeded, err)

	p, err := Classify(context.Background(), root, feature.Vector{"f": 0}, MaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, "deep", p)

	cycle := NewInternal("f", nil, NewLeaf("y"))
	cycle.Left = cycle
	_, err = Classify(context.Background(), cycle, feature.Vector{"f": 0}, MaxDepth(50))
	assert.Equal(t, ErrMaxDepthExceeded, err)
}

func TestClassify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Classify(ctx, twoLevelTree(), feature.Vector{"f": 0})
	assert.Equal(t, context.Canceled, err)
}

func TestClassify_Idempotent(t *testing.T) {
	tr := loanTree()
	s := feature.Vector{"term": 1, "credit": 2}
	p1, err := tr.Classify(context.Background(), s)
	require.NoError(t, err)
	p2, err := tr.Classify(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, feature.Vector{"term": 1, "credit": 2}, s)
	assert.Equal(t, loanTree(), tr)
}

func TestTree_ClassifyNil(t *testing.T) {
	var tr *Tree
	_, err := tr.Classify(context.Background(), feature.Vector{})
	assert.Error(t, err)
}

func TestTree_Validate(t *testing.T) {
	assert.NoError(t, loanTree().Validate())
	assert.True(t, errors.Is((*Tree)(nil).Validate(), ErrMalformedTree))

	shared := NewLeaf(1)
	err := New(NewInternal("f", shared, shared), "").Validate()
	assert.True(t, errors.Is(err, ErrMalformedTree))

	cycle := NewInternal("f", NewLeaf(1), nil)
	cycle.Right = cycle
	err = New(cycle, "").Validate()
	assert.True(t, errors.Is(err, ErrMalformedTree))
}

func TestTree_Depth(t *testing.T) {
	d, err := loanTree().Depth()
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	d, err = New(NewLeaf(1), "").Depth()
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	_, err = New(NewInternal("f", nil, nil), "").Depth()
	assert.Error(t, err)
}

func TestTree_Traverse(t *testing.T) {
	var topdown, bottomup []string
	tr := loanTree()
	err := tr.Traverse(context.Background(), false, func(_ context.Context, n Node) error {
		topdown = append(topdown, fmt.Sprintf("%v", n))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"split on term", "1", "split on credit", "-1", "1"}, topdown)

	err = tr.Traverse(context.Background(), true, func(_ context.Context, n Node) error {
		bottomup = append(bottomup, fmt.Sprintf("%v", n))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "-1", "1", "split on credit", "split on term"}, bottomup)

	stop := errors.New("stop")
	var count int
	err = tr.Traverse(context.Background(), false, func(context.Context, Node) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, count)
}

func TestTree_String(t *testing.T) {
	expected := "{ split on f }\n" +
		"|\n" +
		"|__f is 0\n" +
		"|  { A }\n" +
		"|__f is not 0\n" +
		"   { B }\n"
	assert.Equal(t, expected, New(twoLevelTree(), "").String())
	assert.Contains(t, New(nil, "").String(), "ERROR: ")
}
