// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scarpia

import (
	"fmt"
	"io"
)

// Tracer is an optional observer of interpreter execution, fed one record per
// executed instruction. Implementations must not retain the slices of a
// record beyond the call; they are views into live interpreter state.
type Tracer interface {
	TraceInstruction(TraceRecord)
}

// TraceRecord describes a single executed instruction.
type TraceRecord struct {
	Depth        int           // call depth of the executing frame, root is 0
	Pc           uint64        // program counter of the instruction
	OpCode       byte          // raw byte code of the instruction
	Name         string        // mnemonic of the instruction
	GasBefore    Gas           // gas level before charging the instruction
	GasCost      Gas           // total gas charged, including dynamic portions
	Stack        []Word        // stack content, top element last
	Memory       []byte        // memory content
	StorageDelta *StorageWrite // the slot written by an SSTORE, nil otherwise
}

// StorageWrite is the storage delta of a single SSTORE instruction.
type StorageWrite struct {
	Key   Key
	Value Word
}

// WriterTracer is a Tracer printing one line per instruction to an io.Writer.
// Line format: <depth>, <pc>, <op>, <gas>, <cost>, <top-of-stack>
type WriterTracer struct {
	Out io.Writer
}

func (t WriterTracer) TraceInstruction(r TraceRecord) {
	top := "-empty-"
	if len(r.Stack) > 0 {
		top = r.Stack[len(r.Stack)-1].String()
	}
	fmt.Fprintf(t.Out, "%d, %d, %v, %d, %d, %v\n",
		r.Depth, r.Pc, r.Name, r.GasBefore, r.GasCost, top)
}
