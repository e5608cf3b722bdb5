package sip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intEq(a, b int) bool { return a == b }

func TestOrderedCollection_EqualMultisetIgnoresOrder(t *testing.T) {
	a := NewOrderedCollection(intEq, 1, 2, 3)
	b := NewOrderedCollection(intEq, 3, 1, 2)
	assert.True(t, a.EqualMultiset(b))
	assert.True(t, b.EqualMultiset(a))
}

func TestOrderedCollection_EqualMultisetRespectsDuplicateCounts(t *testing.T) {
	a := NewOrderedCollection(intEq, 1, 1, 2)
	b := NewOrderedCollection(intEq, 1, 2, 2)
	assert.False(t, a.EqualMultiset(b))
}

func TestOrderedCollection_EqualSequenceIsOrderSensitive(t *testing.T) {
	a := NewOrderedCollection(intEq, 1, 2, 3)
	b := NewOrderedCollection(intEq, 3, 2, 1)
	assert.True(t, a.EqualSequence(a))
	assert.False(t, a.EqualSequence(b))
}

func TestHashCommutative_OrderIndependent(t *testing.T) {
	h1 := HashCommutative(1, 2, 3)
	h2 := HashCommutative(3, 2, 1)
	assert.Equal(t, h1, h2)
}
