package aidwarf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/ai"
)

func TestJoinSign(t *testing.T) {
	assert.Equal(t, signPositive, joinSign(signPositive, signPositive))
	assert.Equal(t, signUnknown, joinSign(signPositive, signNegative))
	assert.Equal(t, signUnknown, joinSign(signZero, signPositive))
}

func TestSignTransfer_Constant(t *testing.T) {
	tr := signTransfer{}
	assert.Equal(t, signZero, tr.Constant(ai.OpCode_ICONST_0, 0))
	assert.Equal(t, signNegative, tr.Constant(ai.OpCode_ICONST_M1, 0))
	assert.Equal(t, signPositive, tr.Constant(ai.OpCode_ICONST_1, 0))
	assert.Equal(t, signUnknown, tr.Constant(ai.OpCode_SIPUSH, 0))
}

func TestSignTransfer_Binary(t *testing.T) {
	tr := signTransfer{}
	assert.Equal(t, signPositive, tr.Binary(ai.OpCode_IADD, 0, signPositive, signZero))
	assert.Equal(t, signNegative, tr.Binary(ai.OpCode_IADD, 0, signZero, signNegative))
	assert.Equal(t, signUnknown, tr.Binary(ai.OpCode_IADD, 0, signPositive, signNegative))
	assert.Equal(t, signUnknown, tr.Binary(ai.OpCode_IMUL, 0, signPositive, signPositive))
}

func TestDemoMethod_AnalyzesToFixedPoint(t *testing.T) {
	stream, method, cp := demoMethod()

	cfg, err := ai.NewBlockCFG(stream, nil)
	require.NoError(t, err)
	stream.SeekTo(0)

	interp := ai.NewAbstractInterpreter[sign](signTransfer{}, cp)
	result, err := interp.Analyze(context.Background(), stream, cfg, method)
	require.NoError(t, err)

	entry, ok := result.StateAt(0)
	require.True(t, ok)
	assert.Equal(t, 0, entry.Stack.Len())

	returnState, ok := result.StateAt(11)
	require.True(t, ok)
	assert.Equal(t, 1, returnState.Stack.Depth())
}
