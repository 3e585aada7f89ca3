package json

import (
	"encoding/json"

	"github.com/pbanos/grove/tree"
)

/*
RecordCodec encodes node records as compact JSON objects and decodes
them back. It can be handed to redisstore.New.
*/
type RecordCodec struct{}

type record struct {
	ID         string           `json:"id"`
	Leaf       bool             `json:"leaf,omitempty"`
	Prediction *json.RawMessage `json:"pred,omitempty"`
	Feature    string           `json:"f,omitempty"`
	LeftID     string           `json:"l,omitempty"`
	RightID    string           `json:"r,omitempty"`
}

/*
NewRecordEncodeDecoder returns a RecordCodec. Predictions are
encoded with encoding/json, so numeric predictions are
decoded back as float64 values.
*/
func NewRecordEncodeDecoder() RecordCodec {
	return RecordCodec{}
}

// Encode returns the JSON encoding of the given record
func (RecordCodec) Encode(r *tree.Record) ([]byte, error) {
	jr := &record{
		ID:      r.ID,
		Leaf:    r.Leaf,
		Feature: r.Feature,
		LeftID:  r.LeftID,
		RightID: r.RightID,
	}
	if r.Leaf {
		p, err := json.Marshal(r.Prediction)
		if err != nil {
			return nil, err
		}
		rp := json.RawMessage(p)
		jr.Prediction = &rp
	}
	return json.Marshal(jr)
}

// Decode parses a record from its JSON encoding
func (RecordCodec) Decode(data []byte) (*tree.Record, error) {
	jr := &record{}
	err := json.Unmarshal(data, jr)
	if err != nil {
		return nil, err
	}
	r := &tree.Record{
		ID:      jr.ID,
		Leaf:    jr.Leaf,
		Feature: jr.Feature,
		LeftID:  jr.LeftID,
		RightID: jr.RightID,
	}
	if jr.Prediction != nil {
		err = json.Unmarshal(*jr.Prediction, &r.Prediction)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}
