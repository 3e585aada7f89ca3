/*
Package likelihood scores labelled samples of a single scalar feature
under a logistic link.

Labels are expected to be -1 or +1.
*/
package likelihood

import "fmt"

/*
LengthMismatchError is the error returned when building a sample set
from sequences of features and labels of different lengths.
*/
type LengthMismatchError struct {
	Features int
	Labels   int
}

func (lme *LengthMismatchError) Error() string {
	return fmt.Sprintf("got %d features but %d labels", lme.Features, lme.Labels)
}

/*
Samples is an immutable sequence of feature and label pairs.
*/
type Samples struct {
	features []float64
	labels   []int
}

/*
NewSamples takes a slice of features and a slice of labels and returns
the Samples pairing them by index. It returns a *LengthMismatchError if
the slices differ in length. The slices are copied.
*/
func NewSamples(features []float64, labels []int) (*Samples, error) {
	if len(features) != len(labels) {
		return nil, &LengthMismatchError{len(features), len(labels)}
	}
	s := &Samples{
		features: make([]float64, len(features)),
		labels:   make([]int, len(labels)),
	}
	copy(s.features, features)
	copy(s.labels, labels)
	return s, nil
}

// Len returns the number of samples
func (s *Samples) Len() int {
	return len(s.features)
}

// Feature returns the feature of the i-th sample
func (s *Samples) Feature(i int) float64 {
	return s.features[i]
}

// Label returns the label of the i-th sample
func (s *Samples) Label(i int) int {
	return s.labels[i]
}

// Features returns a copy of the features of the samples
func (s *Samples) Features() []float64 {
	fs := make([]float64, len(s.features))
	copy(fs, s.features)
	return fs
}

// Labels returns a copy of the labels of the samples
func (s *Samples) Labels() []int {
	ls := make([]int, len(s.labels))
	copy(ls, s.labels)
	return ls
}

func (s *Samples) String() string {
	return fmt.Sprintf("%v %v", s.features, s.labels)
}
