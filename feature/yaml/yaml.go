/*
Package yaml provides methods to parse feature vectors, that is, the
samples to classify, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/grove/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadVector takes a slice of bytes with a sample in YML and returns the
feature.Vector parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and a numeric
value. Boolean values are accepted as 1 (true) and 0 (false).
*/
func ReadVector(md []byte) (feature.Vector, error) {
	sample := struct {
		Features map[string]interface{}
	}{}
	err := yaml.Unmarshal(md, &sample)
	if err != nil {
		return nil, fmt.Errorf("parsing yml sample: %v", err)
	}
	if sample.Features == nil {
		return nil, fmt.Errorf("sample has no feature information")
	}
	v := make(feature.Vector, len(sample.Features))
	for fn, fv := range sample.Features {
		switch value := fv.(type) {
		case int:
			v[fn] = float64(value)
		case float64:
			v[fn] = value
		case bool:
			if value {
				v[fn] = 1
			} else {
				v[fn] = 0
			}
		default:
			return nil, fmt.Errorf("invalid value for feature %s of type %T", fn, fv)
		}
	}
	return v, nil
}

/*
ReadVectorFromFile takes a filepath string, reads its contents and uses
ReadVector to parse it and return the parsed feature.Vector or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadVectorFromFile(filepath string) (feature.Vector, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading sample yml file %s: %v", filepath, err)
	}
	v, err := ReadVector(md)
	if err != nil {
		err = fmt.Errorf("parsing sample yml file %s: %v", filepath, err)
	}
	return v, err
}
