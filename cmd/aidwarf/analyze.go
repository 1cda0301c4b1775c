package aidwarf

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Manu343726/aidwarf/pkg/ai"
	"github.com/Manu343726/aidwarf/pkg/ai/fixtures"
)

// sign is a tiny abstract domain over ints: the analysis tracks whether a
// value is known negative, zero, positive, or unknown, joining mismatched
// branches to unknown rather than failing the merge.
type sign int

const (
	signUnknown sign = iota
	signNegative
	signZero
	signPositive
)

func (s sign) String() string {
	switch s {
	case signNegative:
		return "neg"
	case signZero:
		return "zero"
	case signPositive:
		return "pos"
	default:
		return "?"
	}
}

func joinSign(a, b sign) sign {
	if a == b {
		return a
	}
	return signUnknown
}

// signTransfer implements ai.Transfer[sign]. Only the hooks that matter for
// the demo program (constants and integer addition) refine the domain;
// everything else degrades to unknown, the same way ai.TopTransfer always
// returns its top value.
type signTransfer struct {
	ai.TopTransfer[sign]
}

func (signTransfer) Merge(a, b sign) (sign, error) {
	return joinSign(a, b), nil
}

func (signTransfer) Constant(op ai.OpCode, bci int) sign {
	switch op {
	case ai.OpCode_ICONST_M1:
		return signNegative
	case ai.OpCode_ICONST_0:
		return signZero
	case ai.OpCode_ICONST_1, ai.OpCode_ICONST_2, ai.OpCode_ICONST_3, ai.OpCode_ICONST_4, ai.OpCode_ICONST_5:
		return signPositive
	default:
		return signUnknown
	}
}

func (signTransfer) Binary(op ai.OpCode, bci int, left, right sign) sign {
	if op != ai.OpCode_IADD {
		return signUnknown
	}
	if left == signZero {
		return right
	}
	if right == signZero {
		return left
	}
	if left == right {
		return left
	}
	return signUnknown
}

// demoMethod builds a small program equivalent to:
//
//	int f(int n) {
//	    int acc = 0;
//	    if (n >= 0) acc = n + 1; else acc = -1;
//	    return acc;
//	}
//
// bci 0: ICONST_0            push 0
// bci 1: ISTORE_1            acc = 0
// bci 2: ILOAD_0             push n
// bci 3: IFLT 8              if n < 0 goto 8
// bci 4: ICONST_1            push 1
// bci 5: ILOAD_0             push n  (n+1 computed via two pushes + IADD)
// bci 6: IADD
// bci 7: GOTO 9
// bci 8: ICONST_M1           push -1
// bci 9: ISTORE_1            acc = ...
// bci 10: ILOAD_1            push acc
// bci 11: IRETURN
func demoMethod() (*fixtures.Stream, *fixtures.Method, *fixtures.ConstantPool) {
	stream := fixtures.NewStream([]fixtures.Instr{
		{Op: ai.OpCode_ICONST_0},
		{Op: ai.OpCode_ISTORE_1},
		{Op: ai.OpCode_ILOAD_0},
		{Op: ai.OpCode_IFLT, BranchDest: 8},
		{Op: ai.OpCode_ICONST_1},
		{Op: ai.OpCode_ILOAD_0},
		{Op: ai.OpCode_IADD},
		{Op: ai.OpCode_GOTO, BranchDest: 9},
		{Op: ai.OpCode_ICONST_M1},
		{Op: ai.OpCode_ISTORE_1},
		{Op: ai.OpCode_ILOAD_1},
		{Op: ai.OpCode_IRETURN},
	})

	method := &fixtures.Method{
		Static: true,
		Params: []ai.ValueKind{ai.ValueKind_Int},
		Return: ai.ValueKind_Int,
	}

	return stream, method, fixtures.NewConstantPool()
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the abstract interpreter over a demo method and print its per-block frame states",
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	stream, method, cp := demoMethod()

	cfg, err := ai.NewBlockCFG(stream, nil)
	if err != nil {
		return fmt.Errorf("building block CFG: %w", err)
	}
	stream.SeekTo(0)

	interp := ai.NewAbstractInterpreter[sign](signTransfer{}, cp)
	result, err := interp.Analyze(cmd.Context(), stream, cfg, method)
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	bcis := make([]int, 0, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		bcis = append(bcis, b.StartBci)
	}
	sort.Ints(bcis)

	for _, bci := range bcis {
		frame, ok := result.StateAt(bci)
		if !ok {
			continue
		}
		bold.Printf("bci %2d: ", bci)
		green.Printf("stack=%v locals=%v\n", renderStack(frame.Stack), renderLocals(frame.Locals))
	}

	if logger != nil {
		logger.Info("analysis complete", "blocks", len(cfg.Blocks))
	}
	return nil
}

func renderStack(stack *ai.OperandStack[sign]) []string {
	values := stack.Values()
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Value.String()
	}
	return out
}

func renderLocals(locals *ai.LocalVariableTable[sign]) map[int]string {
	out := make(map[int]string)
	for _, idx := range locals.Indices() {
		v, err := locals.Get(idx)
		if err != nil {
			continue
		}
		out[idx] = v.Value.String()
	}
	return out
}
