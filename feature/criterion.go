package feature

import "fmt"

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the sample satisfies the feature criterion, or an error if it cannot be
evaluated on the sample.

Its Feature method returns the name of the feature on which the criterion
is applied.
*/
type Criterion interface {
	Feature() string
	SatisfiedBy(sample Sample) (bool, error)
}

/*
ZeroCriterion is a Criterion satisfied by samples whose value for the
feature equals 0.
*/
type ZeroCriterion struct {
	feature string
}

/*
NewZeroCriterion takes a feature name and returns a ZeroCriterion on it.
*/
func NewZeroCriterion(feature string) *ZeroCriterion {
	return &ZeroCriterion{feature}
}

/*
Feature returns the name of the feature to which the constraint applies.
*/
func (zc *ZeroCriterion) Feature() string {
	return zc.feature
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns a *MissingError if the
sample does not define a value for the feature, true if the value is 0 and false
otherwise.
*/
func (zc *ZeroCriterion) SatisfiedBy(sample Sample) (bool, error) {
	value, ok := sample.ValueFor(zc.feature)
	if !ok {
		return false, &MissingError{zc.feature}
	}
	return value == 0, nil
}

func (zc *ZeroCriterion) String() string {
	return fmt.Sprintf("%s is 0", zc.feature)
}
