package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intEq(a, b int) bool { return a == b }

func TestOperandStack_PushPopOrder(t *testing.T) {
	s := NewOperandStack[int]()
	s.Push(MakeSizedValue(1, ONE))
	s.Push(MakeSizedValue(2, ONE))
	s.Push(MakeSizedValue(3, ONE))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Depth())

	top, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 3, top.Value)

	top, err = s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, top.Value)
}

func TestOperandStack_PopEmptyFails(t *testing.T) {
	s := NewOperandStack[int]()
	_, err := s.Pop()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

func TestOperandStack_DepthCountsTwoSlotValues(t *testing.T) {
	s := NewOperandStack[int]()
	s.Push(MakeSizedValue(1, ONE))
	s.Push(MakeSizedValue(2, TWO))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Depth())
}

func TestOperandStack_PeekDoesNotRemove(t *testing.T) {
	s := NewOperandStack[int]()
	s.Push(MakeSizedValue(10, ONE))
	s.Push(MakeSizedValue(20, ONE))

	v, err := s.Peek(0)
	require.NoError(t, err)
	assert.Equal(t, 20, v.Value)
	assert.Equal(t, 2, s.Len())

	v, err = s.Peek(1)
	require.NoError(t, err)
	assert.Equal(t, 10, v.Value)
}

func TestOperandStack_InsertShiftsUp(t *testing.T) {
	s := NewOperandStack[int]()
	s.Push(MakeSizedValue(1, ONE))
	s.Push(MakeSizedValue(2, ONE))
	s.Push(MakeSizedValue(3, ONE))

	require.NoError(t, s.Insert(2, MakeSizedValue(99, ONE)))

	values := s.Values()
	require.Len(t, values, 4)
	assert.Equal(t, []int{1, 99, 2, 3}, []int{values[0].Value, values[1].Value, values[2].Value, values[3].Value})
}

func TestMergeStacks_ShapeMismatchFails(t *testing.T) {
	a := NewOperandStack[int]()
	a.Push(MakeSizedValue(1, ONE))

	b := NewOperandStack[int]()
	b.Push(MakeSizedValue(1, ONE))
	b.Push(MakeSizedValue(2, ONE))

	merge := func(x, y int) (int, error) { return x, nil }
	_, err := MergeStacks(a, b, merge)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStackShapeMismatch)
}

func TestMergeStacks_SlotMismatchFails(t *testing.T) {
	a := NewOperandStack[int]()
	a.Push(MakeSizedValue(1, ONE))

	b := NewOperandStack[int]()
	b.Push(MakeSizedValue(1, TWO))

	merge := func(x, y int) (int, error) { return x, nil }
	_, err := MergeStacks(a, b, merge)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotMismatch)
}

func TestMergeStacks_MergesPointwise(t *testing.T) {
	a := NewOperandStack[int]()
	a.Push(MakeSizedValue(1, ONE))

	b := NewOperandStack[int]()
	b.Push(MakeSizedValue(2, ONE))

	merge := func(x, y int) (int, error) { return x + y, nil }
	merged, err := MergeStacks(a, b, merge)
	require.NoError(t, err)
	v, err := merged.Peek(0)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Value)
}

func TestLocalVariableTable_GetMissingFails(t *testing.T) {
	l := NewLocalVariableTable[int]()
	_, err := l.Get(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLocal)
}

func TestLocalVariableTable_PutOverwrites(t *testing.T) {
	l := NewLocalVariableTable[int]()
	l.Put(0, MakeSizedValue(1, ONE))
	l.Put(0, MakeSizedValue(2, ONE))

	v, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Value)
}

func TestMergeLocals_IntersectsDefinedIndices(t *testing.T) {
	a := NewLocalVariableTable[int]()
	a.Put(0, MakeSizedValue(1, ONE))
	a.Put(1, MakeSizedValue(2, ONE))

	b := NewLocalVariableTable[int]()
	b.Put(0, MakeSizedValue(10, ONE))

	merge := func(x, y int) (int, error) { return x + y, nil }
	merged, err := MergeLocals(a, b, merge)
	require.NoError(t, err)

	v, err := merged.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 11, v.Value)

	_, err = merged.Get(1)
	require.Error(t, err)
}

func TestAbstractFrame_EqualStructural(t *testing.T) {
	f1 := NewAbstractFrame[int]()
	f1.Stack.Push(MakeSizedValue(1, ONE))
	f1.Locals.Put(0, MakeSizedValue(5, ONE))

	f2 := f1.Copy()
	assert.True(t, f1.Equal(f2, intEq))

	f2.Stack.Push(MakeSizedValue(2, ONE))
	assert.False(t, f1.Equal(f2, intEq))
}

func TestAbstractFrame_MergeWith(t *testing.T) {
	f1 := NewAbstractFrame[int]()
	f1.Stack.Push(MakeSizedValue(1, ONE))
	f1.Locals.Put(0, MakeSizedValue(1, ONE))

	f2 := NewAbstractFrame[int]()
	f2.Stack.Push(MakeSizedValue(2, ONE))
	f2.Locals.Put(0, MakeSizedValue(2, ONE))

	merge := func(x, y int) (int, error) { return x + y, nil }
	merged, err := f1.MergeWith(f2, merge)
	require.NoError(t, err)

	v, err := merged.Stack.Peek(0)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Value)

	lv, err := merged.Locals.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 3, lv.Value)
}
