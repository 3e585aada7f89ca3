package tree

import "fmt"

// TreeError represents an error related with the structure of a tree
type TreeError string

/*
ErrMalformedTree is the error returned (usually wrapped with details on
the offending node) when a node of a tree is neither a well-formed leaf
nor a well-formed internal node, or when nodes do not form a proper tree.
*/
const ErrMalformedTree = TreeError("malformed tree")

/*
ErrMaxDepthExceeded is the error returned by Classify when a sample
descends through more internal nodes than allowed.
*/
const ErrMaxDepthExceeded = TreeError("maximum classification depth exceeded")

func (te TreeError) Error() string {
	return string(te)
}

/*
MissingFeatureError is the error returned when classifying a sample that
does not define a value for the splitting feature of an internal node it
reaches.
*/
type MissingFeatureError struct {
	Feature string
	err     error
}

func (mfe *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing value for splitting feature %q", mfe.Feature)
}

// Unwrap returns the underlying error reported by the feature criterion
func (mfe *MissingFeatureError) Unwrap() error {
	return mfe.err
}
