// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cfvm

import (
	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/holiman/uint256"
)

// frameKind is the execution-type tag of a frame. Direct kinds mark root
// frames, whose exceptions surface as transaction-level failures instead of
// becoming a zero result word for a parent.
type frameKind byte

const (
	frameTransaction frameKind = iota // root frame executing the recipient's code
	frameDirectCreate                 // root frame running initialization code
	frameDirectPrecompile             // root frame invoking a precompiled contract
	frameCall                         // nested CALL or STATICCALL
	frameCallCode                     // nested CALLCODE or DELEGATECALL
	frameCreate                       // nested CREATE
	framePrecompile                   // nested call to a precompiled contract
)

// isDirect returns true for root frame kinds.
func (k frameKind) isDirect() bool {
	return k == frameTransaction || k == frameDirectCreate || k == frameDirectPrecompile
}

// frame is the complete state of one contract invocation. A frame is created
// on transaction entry or when the interpreter suspends on a CALL or CREATE;
// it lives until it halts, reverts, or faults, and is then consumed by the
// orchestrator. Exactly one frame is active at any instant.
type frame struct {
	kind frameKind

	// environment
	account scarpia.Address // the account in whose context the code runs
	caller  scarpia.Address
	value   scarpia.Value // the value reported by CALLVALUE
	input   []byte
	depth   int
	static  bool

	// transfer is the amount moved from the caller to the executing account
	// at frame entry. It equals value except for delegate and static calls,
	// which never move funds.
	transfer scarpia.Value

	code *codeInfo

	// execution state
	pc     int32
	gas    scarpia.Gas
	stack  *stack
	memory *Memory

	// returnData is the output of the most recent child call while running,
	// and the frame's own output once it halted or reverted.
	returnData []byte

	// substate accumulators; they merge into the parent only if this frame
	// neither reverted nor faulted
	logs      []scarpia.Log
	destroyed []scarpia.Address
	refund    scarpia.Gas

	// snapshots taken at frame entry
	stateSnapshot   scarpia.Snapshot
	storageSnapshot scarpia.Snapshot

	// output window in the parent's memory, chosen by the parent's CALL
	outOffset uint64
	outSize   uint64

	// address of the account being created, for create frames
	created scarpia.Address

	// handler of a precompile frame; such frames carry no code
	precompile scarpia.Precompile

	// resume carries the result of the completed child call, to be consumed
	// at the beginning of the next interpreter step on this frame
	resume *resumption
}

// resumption is the result of a completed child frame, fed back into the
// parent: the result word to push, the full output of the child, and the
// memory window the clamped output is copied to.
type resumption struct {
	result     uint256.Int
	output     []byte
	destOffset uint64
	destSize   uint64
}

// newFrame creates a frame with a pooled stack and a fresh memory. The caller
// is responsible for the environment fields.
func newFrame(kind frameKind, gas scarpia.Gas, depth int, static bool) *frame {
	return &frame{
		kind:   kind,
		gas:    gas,
		depth:  depth,
		static: static,
		stack:  newStack(),
		memory: NewMemory(),
	}
}

// release returns pooled resources of a consumed frame.
func (f *frame) release() {
	if f.stack != nil {
		returnStack(f.stack)
		f.stack = nil
	}
}

// mergeSubstate folds the accumulators of a successfully completed child into
// this frame.
func (f *frame) mergeSubstate(child *frame) {
	f.refund += child.refund
	f.logs = append(f.logs, child.logs...)
	f.destroyed = append(f.destroyed, child.destroyed...)
}

// hasDestroyed returns true if the given address is in this frame's destroy
// set.
func (f *frame) hasDestroyed(addr scarpia.Address) bool {
	for _, cur := range f.destroyed {
		if cur == addr {
			return true
		}
	}
	return false
}
