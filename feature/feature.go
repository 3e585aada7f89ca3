package feature

import (
	"fmt"
	"sort"
	"strings"
)

/*
Sample is an interface for something that can be classified.

Its ValueFor method returns the value corresponding to the feature
with the given name and a boolean indicating if the sample defines
a value for it at all.
*/
type Sample interface {
	ValueFor(name string) (float64, bool)
}

/*
Vector is a Sample backed by a map of feature names to their values
*/
type Vector map[string]float64

/*
MissingError is the error returned when a sample does not define
a value for a feature that is required to satisfy a criterion.
*/
type MissingError struct {
	Feature string
}

func (me *MissingError) Error() string {
	return fmt.Sprintf("sample does not define feature %q", me.Feature)
}

/*
ValueFor returns the value for the feature with the given name and
whether the vector defines it.
*/
func (v Vector) ValueFor(name string) (float64, bool) {
	value, ok := v[name]
	return value, ok
}

func (v Vector) String() string {
	names := make([]string, 0, len(v))
	for n := range v {
		names = append(names, n)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, n := range names {
		pairs = append(pairs, fmt.Sprintf("%s:%v", n, v[n]))
	}
	return fmt.Sprintf("[%s]", strings.Join(pairs, " "))
}
