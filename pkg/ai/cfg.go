package ai

import "sort"

// Block is a basic block: a maximal straight-line run of bytecode indices
// with no internal jump target. StartBci/EndBci are inclusive bounds; the
// EndBci instruction is the block's last (its terminator, if any).
type Block struct {
	StartBci int
	EndBci   int
	// Successors are non-exception control-flow edges (fallthrough, jump
	// targets, switch targets).
	Successors []int
}

// ExceptionHandler is one entry of a method's exception table: it covers
// [StartBci, EndBci) and transfers control to HandlerBci on a matching
// throw. CatchType is nil for a catch-all (finally) handler.
type ExceptionHandler struct {
	StartBci   int
	EndBci     int
	HandlerBci int
	CatchType  ResolvedType
}

// BlockCFG is the basic-block partitioning collaborator:
// it provides blocks with start/end program-counter indices, successor
// edges, and exception-handler edges. The interpreter never builds this
// itself; it consumes whatever the host supplies.
type BlockCFG struct {
	Blocks            []*Block
	ExceptionHandlers []ExceptionHandler
	blockByStart      map[int]*Block
}

// NewBlockCFG builds a BlockCFG for a bytecode stream: leaders are
// collected from jump/switch targets and fallthrough boundaries after a
// terminator, then blocks are carved between consecutive leaders.
func NewBlockCFG(stream BytecodeStream, handlers []ExceptionHandler) (*BlockCFG, error) {
	type edge struct {
		from int
		to   []int
		end  int // bci of the terminating instruction
	}

	leaders := map[int]bool{0: true}
	var edges []edge
	lastInstrBci := 0

	for !stream.AtEnd() {
		bci := stream.Bci()
		lastInstrBci = bci
		op := stream.Opcode()
		next := stream.NextBci()

		switch op.Category() {
		case Category_Jump:
			target := stream.ReadBranchDest()
			leaders[target] = true
			if op != OpCode_GOTO && op != OpCode_GOTO_W {
				leaders[next] = true
				edges = append(edges, edge{from: bci, to: []int{target, next}, end: bci})
			} else {
				edges = append(edges, edge{from: bci, to: []int{target}, end: bci})
			}
		case Category_Switch:
			// Switch targets are host-decoded; the stream exposes them via
			// repeated ReadBranchDest calls until it reports AtEnd/advance.
			// Concrete streams are expected to surface every target before
			// Advance() moves past the instruction.
			targets := decodeSwitchTargets(stream)
			for _, t := range targets {
				leaders[t] = true
			}
			leaders[next] = true
			edges = append(edges, edge{from: bci, to: targets, end: bci})
		case Category_Return, Category_Throw:
			leaders[next] = true
			edges = append(edges, edge{from: bci, to: nil, end: bci})
		}

		stream.Advance()
	}

	for _, h := range handlers {
		leaders[h.HandlerBci] = true
	}

	sortedLeaders := make([]int, 0, len(leaders))
	for l := range leaders {
		sortedLeaders = append(sortedLeaders, l)
	}
	sort.Ints(sortedLeaders)

	cfg := &BlockCFG{ExceptionHandlers: handlers, blockByStart: make(map[int]*Block)}
	for i, start := range sortedLeaders {
		if start > lastInstrBci {
			break
		}
		end := lastInstrBci
		if i+1 < len(sortedLeaders) && sortedLeaders[i+1] <= lastInstrBci {
			end = sortedLeaders[i+1] - 1
		}
		block := &Block{StartBci: start, EndBci: end}
		cfg.Blocks = append(cfg.Blocks, block)
		cfg.blockByStart[start] = block
	}

	terminated := make(map[*Block]bool)
	for _, e := range edges {
		block := cfg.blockContaining(e.end)
		if block == nil {
			continue
		}
		terminated[block] = true
		if e.to == nil {
			continue
		}
		block.Successors = append(block.Successors, e.to...)
	}

	// Blocks whose last instruction was not a recorded edge fall through
	// to the next block.
	for i, block := range cfg.Blocks {
		if !terminated[block] && i+1 < len(cfg.Blocks) {
			block.Successors = []int{cfg.Blocks[i+1].StartBci}
		}
	}

	return cfg, nil
}

func (c *BlockCFG) blockContaining(bci int) *Block {
	for _, b := range c.Blocks {
		if bci >= b.StartBci && bci <= b.EndBci {
			return b
		}
	}
	return nil
}

// BlockAt returns the block starting at the given bci, or nil.
func (c *BlockCFG) BlockAt(bci int) *Block {
	return c.blockByStart[bci]
}

// HandlersCovering returns every exception handler whose [StartBci,EndBci)
// range covers bci, in table order (first match has priority per JVM
// semantics, but all are returned so the caller can build one entry state
// per handler).
func (c *BlockCFG) HandlersCovering(bci int) []ExceptionHandler {
	var result []ExceptionHandler
	for _, h := range c.ExceptionHandlers {
		if bci >= h.StartBci && bci < h.EndBci {
			result = append(result, h)
		}
	}
	return result
}

// decodeSwitchTargets is a hook point: real bytecode streams decode
// TABLESWITCH/LOOKUPSWITCH targets (including the default) via repeated
// ReadBranchDest calls combined with stream-specific alignment/entry-count
// bookkeeping. The host's concrete BytecodeStream is responsible for
// making those targets observable; BlockCFG only needs the resulting list.
func decodeSwitchTargets(stream BytecodeStream) []int {
	if sw, ok := stream.(SwitchTargetReader); ok {
		return sw.SwitchTargets()
	}
	return nil
}

// SwitchTargetReader is an optional capability a BytecodeStream can
// implement to expose TABLESWITCH/LOOKUPSWITCH targets (including the
// default target) for the current instruction.
type SwitchTargetReader interface {
	SwitchTargets() []int
}
