package tree

import (
	"context"
	"fmt"
	"sync"
)

/*
Record is the flat representation of a node kept in a NodeStore.
Subtrees are referenced by the IDs of their records.
*/
type Record struct {
	// An ID to identify the record
	ID string
	// Whether the record represents a leaf
	Leaf bool
	// The prediction of a leaf record
	Prediction interface{}
	// The splitting feature of an internal record
	Feature string
	// The IDs of the records for the subtrees of an internal record
	LeftID  string
	RightID string
}

/*
NodeStore is an interface to manage a store
where node records can be created, retrieved,
updated and deleted.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type NodeStore interface {
	// Create takes a record and stores it for the
	// first time in the store, creating an ID for
	// it and setting it for the record. It returns
	// an error if the record cannot be stored.
	Create(ctx context.Context, r *Record) error
	// Get takes an id and returns the record in the
	// store with that id (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, id string) (*Record, error)
	// Store takes a record and stores it under its ID,
	// replacing any record with the same ID. It returns
	// an error if the update cannot be performed.
	Store(ctx context.Context, r *Record) error
	// Delete takes a record already existing in the store
	// and deletes it on the store. It returns an error
	// if the record exist but the deletion cannot be
	// performed.
	Delete(ctx context.Context, r *Record) error
	// Close closes the store, implementations should
	// freeing any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

/*
Save takes a context, a NodeStore and the root node of a tree and
creates a record on the store for every node of the tree. It returns
the ID of the record for the root node or an error if the tree is
malformed or a record cannot be created.
*/
func Save(ctx context.Context, ns NodeStore, root Node) (string, error) {
	err := New(root, "").Validate()
	if err != nil {
		return "", err
	}
	return save(ctx, ns, root)
}

func save(ctx context.Context, ns NodeStore, n Node) (string, error) {
	r := &Record{}
	switch n := n.(type) {
	case *Leaf:
		r.Leaf = true
		r.Prediction = n.Prediction
	case *Internal:
		var err error
		r.Feature = n.Feature
		r.LeftID, err = save(ctx, ns, n.Left)
		if err != nil {
			return "", err
		}
		r.RightID, err = save(ctx, ns, n.Right)
		if err != nil {
			return "", err
		}
	}
	err := ns.Create(ctx, r)
	if err != nil {
		return "", fmt.Errorf("saving node %v: %v", n, err)
	}
	return r.ID, nil
}

/*
Load takes a context, a NodeStore and the ID of a record on it and
returns the tree node built from the record and the records for its
subtrees. An error wrapping ErrMalformedTree is returned if a record
cannot be found, is inconsistent or records do not form a tree. Errors
returned by the store are returned as well.
*/
func Load(ctx context.Context, ns NodeStore, rootID string) (Node, error) {
	return load(ctx, ns, rootID, make(map[string]bool))
}

func load(ctx context.Context, ns NodeStore, id string, visited map[string]bool) (Node, error) {
	if visited[id] {
		return nil, fmt.Errorf("%w: record %q is reachable more than once", ErrMalformedTree, id)
	}
	visited[id] = true
	r, err := ns.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading record %q: %v", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: record %q not found", ErrMalformedTree, id)
	}
	if r.Leaf {
		if r.Feature != "" || r.LeftID != "" || r.RightID != "" {
			return nil, fmt.Errorf("%w: leaf record %q has subtrees", ErrMalformedTree, id)
		}
		if r.Prediction == nil {
			return nil, fmt.Errorf("%w: leaf record %q has no prediction", ErrMalformedTree, id)
		}
		return NewLeaf(r.Prediction), nil
	}
	if r.Feature == "" || r.LeftID == "" || r.RightID == "" {
		return nil, fmt.Errorf("%w: internal record %q lacks splitting feature or subtrees", ErrMalformedTree, id)
	}
	left, err := load(ctx, ns, r.LeftID, visited)
	if err != nil {
		return nil, err
	}
	right, err := load(ctx, ns, r.RightID, visited)
	if err != nil {
		return nil, err
	}
	return NewInternal(r.Feature, left, right), nil
}

type memoryNodeStore struct {
	records map[string]*Record
	lock    *sync.RWMutex
	nextID  uint64
}

// NewMemoryNodeStore returns an implementation
// of NodeStore with the process memory space
// as underlying backend
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{
		records: make(map[string]*Record),
		lock:    &sync.RWMutex{},
	}
}

func (mns *memoryNodeStore) Create(ctx context.Context, r *Record) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		taken := true
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.ID = mns.generateNodeID()
			_, taken = mns.records[r.ID]
		}
		mns.records[r.ID] = copyRecord(r)
		return nil
	})
}

func (mns *memoryNodeStore) Store(ctx context.Context, r *Record) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		mns.records[r.ID] = copyRecord(r)
		return nil
	})
}

func (mns *memoryNodeStore) Get(ctx context.Context, id string) (*Record, error) {
	var r *Record
	err := mns.withRLock(ctx, func(ctx context.Context) error {
		if sr, ok := mns.records[id]; ok {
			r = copyRecord(sr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (mns *memoryNodeStore) Delete(ctx context.Context, r *Record) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		delete(mns.records, r.ID)
		return nil
	})
}

func (mns *memoryNodeStore) Close(ctx context.Context) error {
	return nil
}

func (mns *memoryNodeStore) generateNodeID() string {
	mns.nextID++
	return fmt.Sprintf("%d", mns.nextID)
}

func copyRecord(r *Record) *Record {
	c := *r
	return &c
}

func (mns *memoryNodeStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		mns.lock.Lock()
		select {
		case <-ctx.Done():
			mns.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.Unlock()
	}
	return f(ctx)
}

func (mns *memoryNodeStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		mns.lock.RLock()
		select {
		case <-ctx.Done():
			mns.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.RUnlock()
	}
	return f(ctx)
}
