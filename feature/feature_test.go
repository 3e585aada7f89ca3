package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroCriterion_SatisfiedBy(t *testing.T) {
	c := NewZeroCriterion("f")
	assert.Equal(t, "f", c.Feature())

	ok, err := c.SatisfiedBy(Vector{"f": 0})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SatisfiedBy(Vector{"f": 1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.SatisfiedBy(Vector{"f": -0.5})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZeroCriterion_Missing(t *testing.T) {
	_, err := NewZeroCriterion("f").SatisfiedBy(Vector{"g": 0})
	require.Error(t, err)
	var me *MissingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "f", me.Feature)
}

func TestVector_String(t *testing.T) {
	assert.Equal(t, "[a:1 b:0.5]", Vector{"b": 0.5, "a": 1}.String())
	assert.Equal(t, "[]", Vector{}.String())
}
