package dwarf

import "sync"

// jitActionFlag mirrors the GDB JIT interface's jit_actions_t enum.
type jitActionFlag uint32

const (
	jitNoAction jitActionFlag = iota
	jitRegisterFn
	jitUnregisterFn
)

// JITCodeEntry is one node of the GDB JIT interface's doubly-linked list of
// registered in-memory object files; SymFile holds the raw bytes of a
// minimal ELF (or equivalent) image wrapping the emitted DWARF sections.
type JITCodeEntry struct {
	Next, Prev *JITCodeEntry
	SymFile     []byte
}

// JITDescriptor mirrors __jit_debug_descriptor, the process-global
// singleton GDB's JIT reader polls via its breakpoint on
// __jit_debug_register_code.
type JITDescriptor struct {
	Version       uint32
	ActionFlag    jitActionFlag
	RelevantEntry *JITCodeEntry
	FirstEntry    *JITCodeEntry
}

// JITRegistry is the single-owner type responsible for the GDB JIT
// interface's critical-section discipline: every mutation of the
// process-global descriptor and its linked list happens under one mutex,
// so a concurrent compiler thread registering a method never observes (or
// produces) a torn list.
type JITRegistry struct {
	mu         sync.Mutex
	descriptor JITDescriptor
}

// NewJITRegistry builds a registry with a fresh, empty descriptor (version
// 1, the only version this interface has ever defined).
func NewJITRegistry() *JITRegistry {
	return &JITRegistry{descriptor: JITDescriptor{Version: 1}}
}

// Register inserts a new code entry at the head of the list and marks the
// descriptor as just having registered it, then calls
// __jit_debug_register_code (the empty breakpoint target GDB traps on).
func (r *JITRegistry) Register(symFile []byte) *JITCodeEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := &JITCodeEntry{SymFile: symFile}
	entry.Next = r.descriptor.FirstEntry
	if r.descriptor.FirstEntry != nil {
		r.descriptor.FirstEntry.Prev = entry
	}
	r.descriptor.FirstEntry = entry
	r.descriptor.RelevantEntry = entry
	r.descriptor.ActionFlag = jitRegisterFn

	jitDebugRegisterCode()
	return entry
}

// Unregister unlinks entry from the list and marks the descriptor as just
// having unregistered it, then calls __jit_debug_register_code again; GDB's
// JIT reader inspects RelevantEntry/ActionFlag on every trap, not just on
// registration.
func (r *JITRegistry) Unregister(entry *JITCodeEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.Prev != nil {
		entry.Prev.Next = entry.Next
	} else {
		r.descriptor.FirstEntry = entry.Next
	}
	if entry.Next != nil {
		entry.Next.Prev = entry.Prev
	}
	entry.Prev, entry.Next = nil, nil

	r.descriptor.RelevantEntry = entry
	r.descriptor.ActionFlag = jitUnregisterFn

	jitDebugRegisterCode()
}

// Descriptor returns a snapshot of the current descriptor state, for tests
// observing list transitions without reaching into the registry's lock.
func (r *JITRegistry) Descriptor() JITDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.descriptor
}

// jitDebugRegisterCode is the Go-side stand-in for __jit_debug_register_code:
// an intentionally empty function GDB sets a breakpoint on, so every call
// here is a trap point rather than a place that does work itself.
func jitDebugRegisterCode() {}
