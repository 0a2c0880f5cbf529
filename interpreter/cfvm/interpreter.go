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
)

// status is an enumeration of the execution state of an interpreter run.
type status byte

const (
	statusRunning        status = iota // < all fine, ops are processed
	statusStopped                      // < execution stopped with a STOP
	statusReverted                     // < execution stopped with a REVERT
	statusReturned                     // < execution stopped with a RETURN
	statusSelfDestructed               // < execution stopped with a SELF-DESTRUCT
	statusSuspended                    // < execution suspended on a CALL or CREATE
	statusFailed                       // < execution stopped with a logic error
)

// runEnv bundles the per-transaction collaborators shared by all frames of
// one run: the release specification, the stores, the resolved gas prices,
// and the precompile set. It is created once per Run invocation.
type runEnv struct {
	spec        *scarpia.Spec
	block       scarpia.BlockParameters
	txn         scarpia.TransactionParameters
	state       scarpia.StateStore
	storage     scarpia.StorageStore
	blockHash   scarpia.BlockHashOracle
	tracer      scarpia.Tracer
	codes       *codeCache
	prices      *gasPrices
	precompiles map[scarpia.Address]scarpia.Precompile

	// isDestroyed reports whether the given account is in the destroy set of
	// any live frame; used for self-destruct refund deduplication.
	isDestroyed func(scarpia.Address) bool
}

// context is the execution environment of a single interpreter step-batch:
// the active frame plus the per-transaction collaborators. A new context
// value is created for each steps() invocation.
type context struct {
	*frame
	env *runEnv

	// child is set when the executed instruction issued a nested call or
	// create; the loop suspends and hands it to the orchestrator.
	child *frame
}

// useGas reduces the gas level by the given amount. If the gas level would
// drop below zero, an out-of-gas error is returned and the caller must stop
// the execution.
func (c *context) useGas(amount scarpia.Gas) error {
	if c.gas < 0 || amount < 0 || c.gas < amount {
		return errOutOfGas
	}
	c.gas -= amount
	return nil
}

// spec returns the active release specification.
func (c *context) spec() *scarpia.Spec {
	return c.env.spec
}

// steps executes the frame of the given context until it suspends on a nested
// call, halts, reverts, or faults. If the frame is a continuation, the stored
// resumption is consumed first: the child's result word is pushed and its
// clamped output copied into memory. Otherwise the return-data buffer starts
// out empty.
func steps(c *context) (status, error) {
	if r := c.resume; r != nil {
		c.resume = nil
		c.returnData = r.output
		n := uint64(len(r.output))
		if n > r.destSize {
			n = r.destSize
		}
		if n > 0 {
			// The memory was already sized while setting up the call; this
			// only writes content.
			if err := c.memory.set(r.destOffset, r.output[:n], c); err != nil {
				return statusFailed, err
			}
		}
		c.stack.push(&r.result)
	} else {
		c.returnData = nil
	}

	prices := c.env.prices
	trace := c.env.tracer != nil

	status := statusRunning
	for status == statusRunning {
		if int(c.pc) >= c.code.length() {
			return statusStopped, nil
		}

		op := OpCode(c.code.code[c.pc])

		// Check stack boundary for every instruction
		if err := checkStackLimits(c.stack.len(), op); err != nil {
			return statusFailed, err
		}

		pcBefore := c.pc
		gasBefore := c.gas

		var storageDelta *scarpia.StorageWrite
		if trace && op == SSTORE && c.stack.len() >= 2 {
			storageDelta = &scarpia.StorageWrite{
				Key:   scarpia.Key(c.stack.peekN(0).Bytes32()),
				Value: scarpia.Word(c.stack.peekN(1).Bytes32()),
			}
		}

		// Consume static gas price for instruction before execution
		if err := c.useGas(prices[op]); err != nil {
			return statusFailed, err
		}

		var err error

		// Execute instruction
		switch op {
		case STOP:
			status = statusStopped
		case ADD:
			opAdd(c)
		case MUL:
			opMul(c)
		case SUB:
			opSub(c)
		case DIV:
			opDiv(c)
		case SDIV:
			opSDiv(c)
		case MOD:
			opMod(c)
		case SMOD:
			opSMod(c)
		case ADDMOD:
			opAddMod(c)
		case MULMOD:
			opMulMod(c)
		case EXP:
			err = opExp(c)
		case SIGNEXTEND:
			opSignExtend(c)
		case LT:
			opLt(c)
		case GT:
			opGt(c)
		case SLT:
			opSlt(c)
		case SGT:
			opSgt(c)
		case EQ:
			opEq(c)
		case ISZERO:
			opIszero(c)
		case AND:
			opAnd(c)
		case OR:
			opOr(c)
		case XOR:
			opXor(c)
		case NOT:
			opNot(c)
		case BYTE:
			opByte(c)
		case SHA3:
			err = opSha3(c)
		case ADDRESS:
			opAddress(c)
		case BALANCE:
			opBalance(c)
		case ORIGIN:
			opOrigin(c)
		case CALLER:
			opCaller(c)
		case CALLVALUE:
			opCallvalue(c)
		case CALLDATALOAD:
			opCallDataload(c)
		case CALLDATASIZE:
			opCallDatasize(c)
		case CALLDATACOPY:
			err = genericDataCopy(c, c.input)
		case CODESIZE:
			opCodeSize(c)
		case CODECOPY:
			err = genericDataCopy(c, c.code.code)
		case GASPRICE:
			opGasPrice(c)
		case EXTCODESIZE:
			opExtcodesize(c)
		case EXTCODECOPY:
			err = opExtCodeCopy(c)
		case RETURNDATASIZE:
			err = opReturnDataSize(c)
		case RETURNDATACOPY:
			err = opReturnDataCopy(c)
		case BLOCKHASH:
			opBlockhash(c)
		case COINBASE:
			opCoinbase(c)
		case TIMESTAMP:
			opTimestamp(c)
		case NUMBER:
			opNumber(c)
		case DIFFICULTY:
			opDifficulty(c)
		case GASLIMIT:
			opGasLimit(c)
		case POP:
			opPop(c)
		case MLOAD:
			err = opMload(c)
		case MSTORE:
			err = opMstore(c)
		case MSTORE8:
			err = opMstore8(c)
		case SLOAD:
			opSload(c)
		case SSTORE:
			err = opSstore(c)
		case JUMP:
			err = opJump(c)
		case JUMPI:
			err = opJumpi(c)
		case PC:
			opPc(c)
		case MSIZE:
			opMsize(c)
		case GAS:
			opGas(c)
		case JUMPDEST:
			// nothing
		case PUSH1, PUSH2, PUSH3, PUSH4, PUSH5, PUSH6, PUSH7, PUSH8,
			PUSH9, PUSH10, PUSH11, PUSH12, PUSH13, PUSH14, PUSH15, PUSH16,
			PUSH17, PUSH18, PUSH19, PUSH20, PUSH21, PUSH22, PUSH23, PUSH24,
			PUSH25, PUSH26, PUSH27, PUSH28, PUSH29, PUSH30, PUSH31, PUSH32:
			opPush(c, op.pushSize())
		case DUP1, DUP2, DUP3, DUP4, DUP5, DUP6, DUP7, DUP8,
			DUP9, DUP10, DUP11, DUP12, DUP13, DUP14, DUP15, DUP16:
			opDup(c, int(op-DUP1)+1)
		case SWAP1, SWAP2, SWAP3, SWAP4, SWAP5, SWAP6, SWAP7, SWAP8,
			SWAP9, SWAP10, SWAP11, SWAP12, SWAP13, SWAP14, SWAP15, SWAP16:
			opSwap(c, int(op-SWAP1)+1)
		case LOG0, LOG1, LOG2, LOG3, LOG4:
			err = opLog(c, int(op-LOG0))
		case CREATE:
			err = genericCreate(c)
		case CALL:
			err = genericCall(c, scarpia.Call)
		case CALLCODE:
			err = genericCall(c, scarpia.CallCode)
		case DELEGATECALL:
			err = opDelegateCall(c)
		case STATICCALL:
			err = opStaticCall(c)
		case RETURN:
			err = opEndWithResult(c)
			status = statusReturned
		case REVERT:
			err = opRevert(c)
			status = statusReverted
		case SELFDESTRUCT:
			status, err = opSelfdestruct(c)
		default:
			err = errInvalidInstruction
		}

		if trace {
			traceInstruction(c, pcBefore, op, gasBefore, storageDelta)
		}

		if err != nil {
			return statusFailed, err
		}

		c.pc++

		if c.child != nil {
			return statusSuspended, nil
		}
	}
	return status, nil
}

// traceInstruction reports an executed instruction to the tracer of the run.
func traceInstruction(c *context, pc int32, op OpCode, gasBefore scarpia.Gas, delta *scarpia.StorageWrite) {
	words := make([]scarpia.Word, c.stack.len())
	for i := 0; i < c.stack.len(); i++ {
		words[i] = c.stack.get(i).Bytes32()
	}
	c.env.tracer.TraceInstruction(scarpia.TraceRecord{
		Depth:        c.depth,
		Pc:           uint64(pc),
		OpCode:       byte(op),
		Name:         op.String(),
		GasBefore:    gasBefore,
		GasCost:      gasBefore - c.gas,
		Stack:        words,
		Memory:       c.memory.store,
		StorageDelta: delta,
	})
}
