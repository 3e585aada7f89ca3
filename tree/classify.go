package tree

import (
	"context"
	"fmt"

	"github.com/pbanos/grove/feature"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the number of internal nodes a sample may go
// through when being classified unless the MaxDepth option is given.
const DefaultMaxDepth = 10000

/*
Tracer receives the steps taken while classifying a sample.

Split is called for every internal node with its splitting feature and
the value the sample has for it. Predict is called once with the prediction
of the leaf reached.
*/
type Tracer interface {
	Split(feature string, value float64)
	Predict(prediction interface{})
}

// ClassifyOption configures a call to Classify
type ClassifyOption func(*classifyConfig)

type classifyConfig struct {
	tracer   Tracer
	maxDepth int
}

// Annotate returns a ClassifyOption that makes Classify report
// every step to the given Tracer. A nil Tracer disables tracing.
func Annotate(t Tracer) ClassifyOption {
	return func(cc *classifyConfig) {
		cc.tracer = t
	}
}

// MaxDepth returns a ClassifyOption that limits the number of internal
// nodes a sample may go through. Non-positive values are ignored.
func MaxDepth(d int) ClassifyOption {
	return func(cc *classifyConfig) {
		if d > 0 {
			cc.maxDepth = d
		}
	}
}

/*
Classify takes a context, the root node of a tree, a sample and a number of
options, and descends the tree from the given node choosing the left subtree
when the sample's value for the node's splitting feature equals 0 and the
right one otherwise. It returns the prediction of the leaf it reaches.

Neither the tree nor the sample are modified. A *MissingFeatureError is returned
if the sample lacks a splitting feature, an error wrapping ErrMalformedTree if a
malformed node is found, ErrMaxDepthExceeded if the descent goes too deep and
the context error if it is cancelled or times out.
*/
func Classify(ctx context.Context, n Node, s feature.Sample, opts ...ClassifyOption) (interface{}, error) {
	cc := &classifyConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(cc)
	}
	for depth := 0; ; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := checkNode(n); err != nil {
			return nil, fmt.Errorf("classifying sample: node at depth %d: %w", depth, err)
		}
		in, ok := n.(*Internal)
		if !ok {
			prediction := n.(*Leaf).Prediction
			if cc.tracer != nil {
				cc.tracer.Predict(prediction)
			}
			return prediction, nil
		}
		if depth >= cc.maxDepth {
			return nil, ErrMaxDepthExceeded
		}
		left, err := in.Criterion().SatisfiedBy(s)
		if err != nil {
			return nil, &MissingFeatureError{Feature: in.Feature, err: err}
		}
		if cc.tracer != nil {
			value, _ := s.ValueFor(in.Feature)
			cc.tracer.Split(in.Feature, value)
		}
		if left {
			n = in.Left
		} else {
			n = in.Right
		}
	}
}

type logTracer struct {
	logger zerolog.Logger
}

/*
LogTracer returns a Tracer that writes every classification step to the
given logger as an info level event.
*/
func LogTracer(logger zerolog.Logger) Tracer {
	return &logTracer{logger}
}

func (lt *logTracer) Split(feature string, value float64) {
	lt.logger.Info().
		Str("feature", feature).
		Float64("value", value).
		Msgf("Split on %s = %v", feature, value)
}

func (lt *logTracer) Predict(prediction interface{}) {
	lt.logger.Info().
		Interface("prediction", prediction).
		Msgf("At leaf, predicting %v", prediction)
}
