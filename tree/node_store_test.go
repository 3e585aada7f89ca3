package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	tr := loanTree()

	rootID, err := Save(ctx, ns, tr.Root)
	require.NoError(t, err)
	require.NotEmpty(t, rootID)

	root, err := Load(ctx, ns, rootID)
	require.NoError(t, err)
	assert.Equal(t, tr.Root, root)
	require.NoError(t, ns.Close(ctx))
}

func TestSave_Malformed(t *testing.T) {
	_, err := Save(context.Background(), NewMemoryNodeStore(), NewInternal("f", NewLeaf(1), nil))
	assert.True(t, errors.Is(err, ErrMalformedTree))

	_, err = Save(context.Background(), NewMemoryNodeStore(), NewInternal("f", NewLeaf(nil), NewLeaf("B")))
	assert.True(t, errors.Is(err, ErrMalformedTree))
}

func TestLoad_Malformed(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	records := []*Record{
		{ID: "leaf", Leaf: true, Prediction: "A"},
		{ID: "bad-leaf", Leaf: true, Prediction: "A", LeftID: "leaf"},
		{ID: "no-prediction", Leaf: true},
		{ID: "no-feature", LeftID: "leaf", RightID: "leaf"},
		{ID: "shared", Feature: "f", LeftID: "leaf", RightID: "leaf"},
		{ID: "dangling", Feature: "f", LeftID: "leaf", RightID: "nowhere"},
		{ID: "cycle", Feature: "f", LeftID: "cycle", RightID: "leaf"},
	}
	for _, r := range records {
		require.NoError(t, ns.Store(ctx, r))
	}
	for _, id := range []string{"bad-leaf", "no-prediction", "no-feature", "shared", "dangling", "cycle", "missing"} {
		_, err := Load(ctx, ns, id)
		assert.True(t, errors.Is(err, ErrMalformedTree), "loading %s: %v", id, err)
	}
	n, err := Load(ctx, ns, "leaf")
	require.NoError(t, err)
	assert.Equal(t, NewLeaf("A"), n)
}

func TestMemoryNodeStore(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	r := &Record{Leaf: true, Prediction: 1}
	require.NoError(t, ns.Create(ctx, r))
	require.NotEmpty(t, r.ID)

	got, err := ns.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
	got.Prediction = 2
	again, err := ns.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Prediction)

	require.NoError(t, ns.Delete(ctx, r))
	got, err = ns.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ns.Get(cctx, r.ID)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, context.Canceled, ns.Create(cctx, &Record{}))
}
