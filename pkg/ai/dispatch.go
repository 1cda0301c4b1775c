package ai

// step runs the transfer function for a single instruction in place on
// state, and returns the next bci to visit (the fallthrough bci for every
// opcode except the ones in Category_Jump/Category_Switch/Category_Return/
// Category_Throw, where the worklist driver never follows "next" because
// the block ends there). ATHROW and the return family terminate the
// straight-line region; their successors come only from block.Successors
// / exception-handler edges computed by BlockCFG.
func (ai *AbstractInterpreter[T]) step(stream InstructionDecoder, state *AbstractFrame[T], op OpCode, bci int, method ResolvedMethod) (int, error) {
	next := stream.NextBci()

	switch op {
	case OpCode_NOP:
		// no effect on the frame.

	case OpCode_ACONST_NULL, OpCode_ICONST_M1,
		OpCode_ICONST_0, OpCode_ICONST_1, OpCode_ICONST_2, OpCode_ICONST_3, OpCode_ICONST_4, OpCode_ICONST_5,
		OpCode_FCONST_0, OpCode_FCONST_1, OpCode_FCONST_2,
		OpCode_BIPUSH, OpCode_SIPUSH:
		if op == OpCode_BIPUSH {
			stream.ReadByte()
		} else if op == OpCode_SIPUSH {
			stream.ReadShort()
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.Constant(op, bci), ONE))

	case OpCode_LCONST_0, OpCode_LCONST_1, OpCode_DCONST_0, OpCode_DCONST_1:
		state.Stack.Push(MakeSizedValue(ai.Transfer.Constant(op, bci), TWO))

	case OpCode_LDC, OpCode_LDC_W:
		cpi := stream.ReadCpIndex(op == OpCode_LDC_W)
		value, err := ai.resolveConstant(cpi, op)
		if err != nil {
			return 0, err
		}
		state.Stack.Push(MakeSizedValue(value, ONE))

	case OpCode_LDC2_W:
		cpi := stream.ReadCpIndex(true)
		value, err := ai.resolveConstant(cpi, op)
		if err != nil {
			return 0, err
		}
		state.Stack.Push(MakeSizedValue(value, TWO))

	case OpCode_ILOAD, OpCode_FLOAD, OpCode_ALOAD:
		if err := ai.load(stream.ReadLocalIndex(), ONE, state); err != nil {
			return 0, err
		}
	case OpCode_LLOAD, OpCode_DLOAD:
		if err := ai.load(stream.ReadLocalIndex(), TWO, state); err != nil {
			return 0, err
		}

	case OpCode_ILOAD_0, OpCode_FLOAD_0, OpCode_ALOAD_0:
		if err := ai.load(0, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_ILOAD_1, OpCode_FLOAD_1, OpCode_ALOAD_1:
		if err := ai.load(1, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_ILOAD_2, OpCode_FLOAD_2, OpCode_ALOAD_2:
		if err := ai.load(2, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_ILOAD_3, OpCode_FLOAD_3, OpCode_ALOAD_3:
		if err := ai.load(3, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_LLOAD_0, OpCode_DLOAD_0:
		if err := ai.load(0, TWO, state); err != nil {
			return 0, err
		}
	case OpCode_LLOAD_1, OpCode_DLOAD_1:
		if err := ai.load(1, TWO, state); err != nil {
			return 0, err
		}
	case OpCode_LLOAD_2, OpCode_DLOAD_2:
		if err := ai.load(2, TWO, state); err != nil {
			return 0, err
		}
	case OpCode_LLOAD_3, OpCode_DLOAD_3:
		if err := ai.load(3, TWO, state); err != nil {
			return 0, err
		}

	case OpCode_ISTORE, OpCode_FSTORE, OpCode_ASTORE:
		if err := ai.store(stream.ReadLocalIndex(), ONE, state); err != nil {
			return 0, err
		}
	case OpCode_LSTORE, OpCode_DSTORE:
		if err := ai.store(stream.ReadLocalIndex(), TWO, state); err != nil {
			return 0, err
		}
	case OpCode_ISTORE_0, OpCode_FSTORE_0, OpCode_ASTORE_0:
		if err := ai.store(0, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_ISTORE_1, OpCode_FSTORE_1, OpCode_ASTORE_1:
		if err := ai.store(1, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_ISTORE_2, OpCode_FSTORE_2, OpCode_ASTORE_2:
		if err := ai.store(2, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_ISTORE_3, OpCode_FSTORE_3, OpCode_ASTORE_3:
		if err := ai.store(3, ONE, state); err != nil {
			return 0, err
		}
	case OpCode_LSTORE_0, OpCode_DSTORE_0:
		if err := ai.store(0, TWO, state); err != nil {
			return 0, err
		}
	case OpCode_LSTORE_1, OpCode_DSTORE_1:
		if err := ai.store(1, TWO, state); err != nil {
			return 0, err
		}
	case OpCode_LSTORE_2, OpCode_DSTORE_2:
		if err := ai.store(2, TWO, state); err != nil {
			return 0, err
		}
	case OpCode_LSTORE_3, OpCode_DSTORE_3:
		if err := ai.store(3, TWO, state); err != nil {
			return 0, err
		}

	case OpCode_IALOAD, OpCode_FALOAD, OpCode_AALOAD, OpCode_BALOAD, OpCode_CALOAD, OpCode_SALOAD:
		if err := ai.arrayLoad(state, op, ONE); err != nil {
			return 0, err
		}
	case OpCode_LALOAD, OpCode_DALOAD:
		if err := ai.arrayLoad(state, op, TWO); err != nil {
			return 0, err
		}

	case OpCode_IASTORE, OpCode_FASTORE, OpCode_AASTORE, OpCode_BASTORE, OpCode_CASTORE, OpCode_SASTORE:
		if err := ai.arrayStore(state, ONE); err != nil {
			return 0, err
		}
	case OpCode_LASTORE, OpCode_DASTORE:
		if err := ai.arrayStore(state, TWO); err != nil {
			return 0, err
		}

	case OpCode_POP:
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
	case OpCode_POP2:
		if err := ai.pop2(state); err != nil {
			return 0, err
		}
	case OpCode_DUP:
		if err := ai.dup(state); err != nil {
			return 0, err
		}
	case OpCode_DUP_X1:
		if err := ai.dupX(state, 1); err != nil {
			return 0, err
		}
	case OpCode_DUP_X2:
		if err := ai.dupX2(state); err != nil {
			return 0, err
		}
	case OpCode_DUP2:
		if err := ai.dup2(state); err != nil {
			return 0, err
		}
	case OpCode_DUP2_X1:
		if err := ai.dup2X(state, 1); err != nil {
			return 0, err
		}
	case OpCode_DUP2_X2:
		if err := ai.dup2X2(state); err != nil {
			return 0, err
		}
	case OpCode_SWAP:
		if err := ai.swap(state); err != nil {
			return 0, err
		}

	case OpCode_IADD, OpCode_FADD, OpCode_ISUB, OpCode_FSUB, OpCode_IMUL, OpCode_FMUL,
		OpCode_IDIV, OpCode_FDIV, OpCode_IREM, OpCode_FREM,
		OpCode_ISHL, OpCode_ISHR, OpCode_IUSHR, OpCode_IAND, OpCode_IOR, OpCode_IXOR:
		if err := ai.binary(state, op, ONE, ONE); err != nil {
			return 0, err
		}
	case OpCode_LADD, OpCode_LSUB, OpCode_LMUL, OpCode_LDIV, OpCode_LREM,
		OpCode_LAND, OpCode_LOR, OpCode_LXOR:
		if err := ai.binary(state, op, TWO, TWO); err != nil {
			return 0, err
		}
	case OpCode_DADD, OpCode_DSUB, OpCode_DMUL, OpCode_DDIV, OpCode_DREM:
		if err := ai.binary(state, op, TWO, TWO); err != nil {
			return 0, err
		}
	case OpCode_LSHL, OpCode_LSHR, OpCode_LUSHR:
		// shift amount is a one-slot int, shifted value is two-slot.
		if err := ai.binary(state, op, ONE, TWO); err != nil {
			return 0, err
		}

	case OpCode_INEG, OpCode_FNEG:
		if err := ai.unary(state, op, ONE); err != nil {
			return 0, err
		}
	case OpCode_LNEG, OpCode_DNEG:
		if err := ai.unary(state, op, TWO); err != nil {
			return 0, err
		}

	case OpCode_IINC:
		stream.ReadLocalIndex()
		stream.ReadIncrement()
		// IINC does not touch the operand stack.

	case OpCode_I2F, OpCode_I2B, OpCode_I2C, OpCode_I2S, OpCode_F2I:
		if err := ai.convert(state, op, ONE, ONE); err != nil {
			return 0, err
		}
	case OpCode_I2L, OpCode_I2D, OpCode_F2L, OpCode_F2D:
		if err := ai.convert(state, op, ONE, TWO); err != nil {
			return 0, err
		}
	case OpCode_L2I, OpCode_L2F, OpCode_D2I, OpCode_D2F:
		if err := ai.convert(state, op, TWO, ONE); err != nil {
			return 0, err
		}
	case OpCode_L2D, OpCode_D2L:
		if err := ai.convert(state, op, TWO, TWO); err != nil {
			return 0, err
		}

	case OpCode_LCMP, OpCode_DCMPL, OpCode_DCMPG:
		if err := ai.compare(state, op, TWO); err != nil {
			return 0, err
		}
	case OpCode_FCMPL, OpCode_FCMPG:
		if err := ai.compare(state, op, ONE); err != nil {
			return 0, err
		}

	case OpCode_IFEQ, OpCode_IFNE, OpCode_IFLT, OpCode_IFGE, OpCode_IFGT, OpCode_IFLE,
		OpCode_IFNULL, OpCode_IFNONNULL:
		stream.ReadBranchDest()
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
	case OpCode_IF_ICMPEQ, OpCode_IF_ICMPNE, OpCode_IF_ICMPLT, OpCode_IF_ICMPGE, OpCode_IF_ICMPGT, OpCode_IF_ICMPLE,
		OpCode_IF_ACMPEQ, OpCode_IF_ACMPNE:
		stream.ReadBranchDest()
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
	case OpCode_GOTO, OpCode_GOTO_W:
		stream.ReadBranchDest()

	case OpCode_TABLESWITCH, OpCode_LOOKUPSWITCH:
		decodeSwitchTargets(stream)
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}

	case OpCode_INVOKESTATIC, OpCode_INVOKESPECIAL, OpCode_INVOKEVIRTUAL, OpCode_INVOKEINTERFACE, OpCode_INVOKEDYNAMIC:
		cpi := stream.ReadCpIndex(op == OpCode_INVOKEDYNAMIC)
		if err := ai.invoke(state, op, bci, cpi, method); err != nil {
			return 0, err
		}

	case OpCode_NEW:
		cpi := stream.ReadCpIndex(false)
		if _, err := ai.CP.LookupType(cpi, op); err != nil {
			// resolution failures are silently swallowed.
			_ = err
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.New(op, bci, nil), ONE))
	case OpCode_NEWARRAY:
		stream.ReadByte()
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.New(op, bci, nil), ONE))
	case OpCode_ANEWARRAY:
		stream.ReadCpIndex(false)
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.New(op, bci, nil), ONE))
	case OpCode_MULTIANEWARRAY:
		stream.ReadCpIndex(false)
		dims := int(stream.ReadByte())
		values := make([]T, 0, dims)
		for i := 0; i < dims; i++ {
			v, err := state.Stack.Pop()
			if err != nil {
				return 0, err
			}
			values = append(values, v.Value)
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.New(op, bci, values), ONE))

	case OpCode_MONITORENTER, OpCode_MONITOREXIT:
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}

	case OpCode_ATHROW:
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}

	case OpCode_CHECKCAST, OpCode_INSTANCEOF:
		stream.ReadCpIndex(false)
		v, err := state.Stack.Pop()
		if err != nil {
			return 0, err
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.Convert(op, bci, v.Value), ONE))

	case OpCode_ARRAYLENGTH:
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.Unary(op, bci, ai.Transfer.Top()), ONE))

	case OpCode_GETSTATIC, OpCode_GETFIELD:
		cpi := stream.ReadCpIndex(false)
		field, _ := ai.CP.LookupField(cpi, method, op)
		var operands []T
		if op == OpCode_GETFIELD {
			v, err := state.Stack.Pop()
			if err != nil {
				return 0, err
			}
			operands = []T{v.Value}
		}
		state.Stack.Push(MakeSizedValue(ai.Transfer.FieldValue(op, bci, field, operands), fieldSlots(field)))
	case OpCode_PUTSTATIC:
		stream.ReadCpIndex(false)
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
	case OpCode_PUTFIELD:
		stream.ReadCpIndex(false)
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}

	case OpCode_IRETURN, OpCode_FRETURN, OpCode_ARETURN:
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
	case OpCode_LRETURN, OpCode_DRETURN:
		if _, err := state.Stack.Pop(); err != nil {
			return 0, err
		}
	case OpCode_RETURN:
		// no operand.

	default:
		if op.Unsupported() {
			return 0, MakeAnalysisError(ErrUnsupportedOpcode, "opcode %v at bci %d", op, bci)
		}
		return 0, MakeAnalysisError(ErrMalformedBytecode, "unrecognized opcode 0x%02x at bci %d", uint8(op), bci)
	}

	return next, nil
}

// fieldSlots reports the slot width GETSTATIC/GETFIELD should push. A
// failed field lookup is swallowed (the resolution-failure policy above),
// leaving field nil; a one-slot width is assumed in that case since the
// actual kind could not be determined.
func fieldSlots(field ResolvedField) Slots {
	if field == nil {
		return ONE
	}
	return field.Kind().Slots()
}

func (ai *AbstractInterpreter[T]) resolveConstant(cpi int, op OpCode) (T, error) {
	value, err := ai.CP.LookupConstant(cpi, op)
	if err != nil {
		// silently swallowed: the Transfer.Constant fallback below applies
	}
	if v, ok := value.(T); ok {
		return v, nil
	}
	return ai.Transfer.Constant(op, 0), nil
}

func (ai *AbstractInterpreter[T]) load(index int, slots Slots, state *AbstractFrame[T]) error {
	v, err := state.Locals.Get(index)
	if err != nil {
		return err
	}
	if v.Slots != slots {
		return MakeAnalysisError(ErrSlotMismatch, "local %d has slot width %v, load expects %v", index, v.Slots, slots)
	}
	state.Stack.Push(v)
	return nil
}

func (ai *AbstractInterpreter[T]) store(index int, slots Slots, state *AbstractFrame[T]) error {
	v, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	if v.Slots != slots {
		return MakeAnalysisError(ErrSlotMismatch, "store at local %d expects slot width %v, got %v", index, slots, v.Slots)
	}
	state.Locals.Put(index, v)
	return nil
}

func (ai *AbstractInterpreter[T]) arrayLoad(state *AbstractFrame[T], op OpCode, resultSlots Slots) error {
	if _, err := state.Stack.Pop(); err != nil { // index
		return err
	}
	if _, err := state.Stack.Pop(); err != nil { // arrayref
		return err
	}
	state.Stack.Push(MakeSizedValue(ai.Transfer.ArrayValue(op, 0, ai.Transfer.Top(), ai.Transfer.Top()), resultSlots))
	return nil
}

func (ai *AbstractInterpreter[T]) arrayStore(state *AbstractFrame[T], valueSlots Slots) error {
	v, err := state.Stack.Pop() // value
	if err != nil {
		return err
	}
	if v.Slots != valueSlots {
		return MakeAnalysisError(ErrSlotMismatch, "array store expects value slot width %v, got %v", valueSlots, v.Slots)
	}
	if _, err := state.Stack.Pop(); err != nil { // index
		return err
	}
	if _, err := state.Stack.Pop(); err != nil { // arrayref
		return err
	}
	return nil
}

// pop2 pops either two one-slot values or one two-slot value.
func (ai *AbstractInterpreter[T]) pop2(state *AbstractFrame[T]) error {
	top, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	if top.Slots == TWO {
		return nil
	}
	if _, err := state.Stack.Pop(); err != nil {
		return err
	}
	return nil
}

func (ai *AbstractInterpreter[T]) dup(state *AbstractFrame[T]) error {
	top, err := state.Stack.Peek(0)
	if err != nil {
		return err
	}
	state.Stack.Push(top)
	return nil
}

// dupX duplicates the top value and inserts it depth positions down,
// skipping over depth one-slot values.
func (ai *AbstractInterpreter[T]) dupX(state *AbstractFrame[T], depth int) error {
	top, err := state.Stack.Peek(0)
	if err != nil {
		return err
	}
	if _, err := state.Stack.Pop(); err != nil {
		return err
	}
	if err := state.Stack.Insert(depth, top); err != nil {
		return err
	}
	state.Stack.Push(top)
	return nil
}

// dupX2 implements DUP_X2: the form consumed (one-slot under two-slot, or
// three one-slot values) depends on the slot width found below the top.
func (ai *AbstractInterpreter[T]) dupX2(state *AbstractFrame[T]) error {
	top, err := state.Stack.Peek(0)
	if err != nil {
		return err
	}
	below, err := state.Stack.Peek(1)
	if err != nil {
		return err
	}
	if _, err := state.Stack.Pop(); err != nil {
		return err
	}
	depth := 2
	if below.Slots == TWO {
		depth = 1
	}
	if err := state.Stack.Insert(depth, top); err != nil {
		return err
	}
	state.Stack.Push(top)
	return nil
}

// dup2 duplicates either the top two one-slot values, or the single
// two-slot value at the top.
func (ai *AbstractInterpreter[T]) dup2(state *AbstractFrame[T]) error {
	top, err := state.Stack.Peek(0)
	if err != nil {
		return err
	}
	if top.Slots == TWO {
		state.Stack.Push(top)
		return nil
	}
	second, err := state.Stack.Peek(1)
	if err != nil {
		return err
	}
	state.Stack.Push(second)
	state.Stack.Push(top)
	return nil
}

func (ai *AbstractInterpreter[T]) dup2X(state *AbstractFrame[T], depth int) error {
	top, err := state.Stack.Peek(0)
	if err != nil {
		return err
	}
	if top.Slots == TWO {
		if _, err := state.Stack.Pop(); err != nil {
			return err
		}
		if err := state.Stack.Insert(depth, top); err != nil {
			return err
		}
		state.Stack.Push(top)
		return nil
	}
	second, err := state.Stack.Peek(1)
	if err != nil {
		return err
	}
	if _, err := state.Stack.Pop(); err != nil {
		return err
	}
	if _, err := state.Stack.Pop(); err != nil {
		return err
	}
	if err := state.Stack.Insert(depth, second); err != nil {
		return err
	}
	if err := state.Stack.Insert(depth, top); err != nil {
		return err
	}
	state.Stack.Push(second)
	state.Stack.Push(top)
	return nil
}

func (ai *AbstractInterpreter[T]) dup2X2(state *AbstractFrame[T]) error {
	top, err := state.Stack.Peek(0)
	if err != nil {
		return err
	}
	if top.Slots == TWO {
		below, err := state.Stack.Peek(1)
		if err != nil {
			return err
		}
		if _, err := state.Stack.Pop(); err != nil {
			return err
		}
		depth := 2
		if below.Slots == TWO {
			depth = 1
		}
		if err := state.Stack.Insert(depth, top); err != nil {
			return err
		}
		state.Stack.Push(top)
		return nil
	}
	return ai.dup2X(state, 2)
}

func (ai *AbstractInterpreter[T]) swap(state *AbstractFrame[T]) error {
	top, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	second, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	state.Stack.Push(top)
	state.Stack.Push(second)
	return nil
}

func (ai *AbstractInterpreter[T]) binary(state *AbstractFrame[T], op OpCode, rightSlots, leftSlots Slots) error {
	right, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	if right.Slots != rightSlots {
		return MakeAnalysisError(ErrSlotMismatch, "binary op %v: right operand slot width %v, expected %v", op, right.Slots, rightSlots)
	}
	left, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	if left.Slots != leftSlots {
		return MakeAnalysisError(ErrSlotMismatch, "binary op %v: left operand slot width %v, expected %v", op, left.Slots, leftSlots)
	}
	state.Stack.Push(MakeSizedValue(ai.Transfer.Binary(op, 0, left.Value, right.Value), left.Slots))
	return nil
}

func (ai *AbstractInterpreter[T]) unary(state *AbstractFrame[T], op OpCode, slots Slots) error {
	v, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	state.Stack.Push(MakeSizedValue(ai.Transfer.Unary(op, 0, v.Value), slots))
	return nil
}

func (ai *AbstractInterpreter[T]) convert(state *AbstractFrame[T], op OpCode, fromSlots, toSlots Slots) error {
	v, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	if v.Slots != fromSlots {
		return MakeAnalysisError(ErrSlotMismatch, "convert op %v: operand slot width %v, expected %v", op, v.Slots, fromSlots)
	}
	state.Stack.Push(MakeSizedValue(ai.Transfer.Convert(op, 0, v.Value), toSlots))
	return nil
}

func (ai *AbstractInterpreter[T]) compare(state *AbstractFrame[T], op OpCode, operandSlots Slots) error {
	right, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	left, err := state.Stack.Pop()
	if err != nil {
		return err
	}
	if left.Slots != operandSlots || right.Slots != operandSlots {
		return MakeAnalysisError(ErrSlotMismatch, "compare op %v: operand slot widths %v/%v, expected %v", op, left.Slots, right.Slots, operandSlots)
	}
	state.Stack.Push(MakeSizedValue(ai.Transfer.Compare(op, 0, left.Value, right.Value), ONE))
	return nil
}

// invoke implements the INVOKE* family: pop N operands (+1 for receiver
// when non-static); if dynamic, first push any method-handle appendix;
// push the return value unless void. The receiver test for INVOKEVIRTUAL
// consults the resolved method's HasReceiver, since the host may have
// rewritten the call.
func (ai *AbstractInterpreter[T]) invoke(state *AbstractFrame[T], op OpCode, bci int, cpi int, caller ResolvedMethod) error {
	resolved, _ := ai.CP.LookupMethod(cpi, op, caller)

	hasReceiver := op != OpCode_INVOKESTATIC
	if op == OpCode_INVOKEVIRTUAL && resolved != nil {
		hasReceiver = resolved.HasReceiver()
	}

	paramCount := 0
	var returnKind ValueKind = ValueKind_Void
	if resolved != nil {
		paramCount = resolved.ParameterCount()
		returnKind = resolved.ReturnKind()
	}

	if op == OpCode_INVOKEDYNAMIC {
		if appendixValue, err := ai.CP.LookupAppendix(cpi, op); err == nil && appendixValue != nil {
			if v, ok := appendixValue.(T); ok {
				state.Stack.Push(MakeSizedValue(v, ONE))
			}
		}
	}

	args := make([]T, paramCount)
	for i := paramCount - 1; i >= 0; i-- {
		v, err := state.Stack.Pop()
		if err != nil {
			return err
		}
		args[i] = v.Value
	}

	var receiver *T
	if hasReceiver {
		v, err := state.Stack.Pop()
		if err != nil {
			return err
		}
		receiver = &v.Value
	}

	result, appendix := ai.Transfer.Invoke(op, bci, resolved, receiver, args)
	if appendix != nil {
		state.Stack.Push(MakeSizedValue(*appendix, ONE))
	}

	if returnKind != ValueKind_Void {
		state.Stack.Push(MakeSizedValue(result, returnKind.Slots()))
	}

	return nil
}
