package redisstore

import (
	"context"
	"fmt"

	"github.com/pbanos/grove/tree"
	"gopkg.in/redis.v5"
)

/*
RecordEncodeDecoder is an interface for objects
that allow encoding node records into slices of
bytes and decoding them back to records.
*/
type RecordEncodeDecoder interface {

	//Encode receives a *tree.Record
	// and returns a slice of bytes with the record
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Record) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Record decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Record, error)
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	rencdec RecordEncodeDecoder
}

//New builds a tree.NodeStore backed by a redis DB
func New(rc *redis.Client, prefix string, rencdec RecordEncodeDecoder) tree.NodeStore {
	return &redisStore{rc, prefix, rencdec}
}

func (rs *redisStore) Create(ctx context.Context, r *tree.Record) error {
	var ok bool
	for !ok {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.ID = randString(20)
		data, err := rs.rencdec.Encode(r)
		if err != nil {
			return fmt.Errorf("creating record: encoding record: %v", err)
		}
		ok, err = rs.rc.SetNX(rs.keyFor(r.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("creating record in redis: %v", err)
		}
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*tree.Record, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving record %q: %v", id, err)
	}
	r, err := rs.rencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving record %q: decoding %q: %v", id, data, err)
	}
	return r, nil
}

func (rs *redisStore) Store(ctx context.Context, r *tree.Record) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	redisID := rs.keyFor(r.ID)
	data, err := rs.rencdec.Encode(r)
	if err != nil {
		return fmt.Errorf("storing record %q: encoding record: %v", redisID, err)
	}
	_, err = rs.rc.Set(redisID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing record %q in redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Delete(ctx context.Context, r *tree.Record) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	redisID := rs.keyFor(r.ID)
	_, err := rs.rc.Del(redisID).Result()
	if err != nil {
		return fmt.Errorf("deleting record %q from redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
