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
	"fmt"

	"github.com/Fantom-foundation/Scarpia/scarpia"
)

// orchestrator owns the LIFO of suspended parent frames and drives the
// interpreter one step-batch at a time. It is the only place translating
// faults into frame unwinding: applying child results to parents, restoring
// snapshots, and merging substates.
type orchestrator struct {
	env    *runEnv
	frames []*frame

	// pendingTouch is the single slot modeling the EIP-161 carve-out: the
	// address of a precompile entered with zero call value under EIP-158
	// rules. An out-of-gas exception of that frame re-touches the address
	// after its snapshots were restored. The slot is cleared on every frame
	// exit.
	pendingTouch *scarpia.Address
}

func newOrchestrator(env *runEnv) *orchestrator {
	o := &orchestrator{env: env}
	env.isDestroyed = o.isDestroyed
	return o
}

// isDestroyed reports whether the given account is in the destroy set of any
// live frame. Destroy sets of reverted frames never become visible here.
func (o *orchestrator) isDestroyed(addr scarpia.Address) bool {
	for _, f := range o.frames {
		if f.hasDestroyed(addr) {
			return true
		}
	}
	return false
}

// run drives the given root frame to completion and produces the transaction
// level result. The returned error is either a fault sentinel describing an
// exceptional halt of the root frame, or an internal error.
func (o *orchestrator) run(root *frame) (scarpia.Result, error) {
	o.enterFrame(root)

	current := root
	for {
		var res status
		var fault error

		if current.kind == framePrecompile || current.kind == frameDirectPrecompile {
			res, fault = o.runPrecompile(current)
		} else {
			ctxt := context{frame: current, env: o.env}
			res, fault = steps(&ctxt)
			if res == statusSuspended {
				o.frames = append(o.frames, current)
				child := ctxt.child
				o.enterFrame(child)
				current = child
				continue
			}
		}

		if res == statusRunning || (res == statusFailed) != (fault != nil) {
			return scarpia.Result{}, fmt.Errorf("unexpected interpreter state: status %d, fault %v", res, fault)
		}

		if len(o.frames) == 0 {
			return o.finishRoot(current, res, fault)
		}

		parent := o.frames[len(o.frames)-1]
		o.frames = o.frames[:len(o.frames)-1]
		o.applyToParent(parent, current, res, fault)
		current.release()
		current = parent
	}
}

// enterFrame takes the LIFO snapshots for a freshly spawned frame and applies
// its entry effects: account creation for create frames and the value
// transfer from the caller.
func (o *orchestrator) enterFrame(f *frame) {
	state := o.env.state
	f.stateSnapshot = state.TakeSnapshot()
	f.storageSnapshot = o.env.storage.TakeSnapshot()

	switch f.kind {
	case frameCreate, frameDirectCreate:
		state.CreateAccount(f.account, scarpia.Value{})
		if o.env.spec.EIP158 {
			// created contracts start with nonce one since Spurious Dragon
			state.IncrementNonce(f.account)
		}
		o.transferValue(f)
	case frameCall, frameCallCode:
		o.transferValue(f)
	case framePrecompile:
		o.transferValue(f)
		if o.env.spec.EIP158 && f.transfer.IsZero() {
			addr := f.account
			o.pendingTouch = &addr
		}
	}
}

// transferValue moves the frame's transfer amount from the caller to the
// executing account. Solvency was checked before the frame was spawned.
func (o *orchestrator) transferValue(f *frame) {
	if f.transfer.IsZero() || f.caller == f.account {
		return
	}
	o.env.state.SubBalance(f.caller, f.transfer, o.env.spec)
	o.env.state.AddBalance(f.account, f.transfer, o.env.spec)
}

// runPrecompile charges and executes the handler of a precompile frame.
func (o *orchestrator) runPrecompile(f *frame) (status, error) {
	p := f.precompile
	cost := p.BaseGas() + p.DataGas(f.input)
	if cost < 0 || f.gas < cost {
		return statusFailed, errOutOfGas
	}
	f.gas -= cost

	output, ok := p.Run(f.input)
	if !ok {
		return statusFailed, errPrecompileFailure
	}
	f.returnData = output
	return statusReturned, nil
}

// applyToParent consumes a completed nested frame and prepares the parent's
// resumption: the result word, the return-data buffer, and the output window
// to fill. It also performs the snapshot restores and substate merges the
// outcome demands.
func (o *orchestrator) applyToParent(parent, child *frame, res status, fault error) {
	r := &resumption{destOffset: child.outOffset, destSize: child.outSize}

	switch {
	case fault == errPrecompileFailure && child.kind == framePrecompile:
		// A failing precompile handler yields a zero result word and
		// consumes the child's gas, but does not revert state.

	case fault != nil:
		// Exceptional halt: erase all effects, the remaining gas is lost.
		o.env.state.RestoreSnapshot(child.stateSnapshot)
		o.env.storage.RestoreSnapshot(child.storageSnapshot)
		if o.pendingTouch != nil && fault == errOutOfGas {
			o.env.state.Touch(*o.pendingTouch, o.env.spec)
		}

	case res == statusReverted:
		// Reverts roll back state but preserve output and remaining gas.
		o.env.state.RestoreSnapshot(child.stateSnapshot)
		o.env.storage.RestoreSnapshot(child.storageSnapshot)
		parent.gas += child.gas
		r.output = child.returnData

	default: // halted successfully
		if child.kind == frameCreate {
			o.applyCreateResult(parent, child, r)
		} else {
			r.result.SetOne()
			r.output = child.returnData
			parent.gas += child.gas
			parent.mergeSubstate(child)
		}
	}

	o.pendingTouch = nil
	parent.resume = r
}

// applyCreateResult finishes a successfully returned create frame: the code
// deposit is charged and the deployed code installed, or the creation fails
// per the active fork rules.
func (o *orchestrator) applyCreateResult(parent, child *frame, r *resumption) {
	code := child.returnData
	spec := o.env.spec

	if spec.EIP170 && len(code) > spec.Gas.MaxCodeSize {
		o.failCodeDeposit(child)
		return
	}

	depositCost := spec.Gas.CodeDeposit * scarpia.Gas(len(code))
	if child.gas < depositCost {
		if spec.EIP2 {
			// Homestead rules: a creation unable to pay for its code is an
			// out-of-gas failure, the created account disappears.
			o.failCodeDeposit(child)
			return
		}
		// Frontier rules: the deposit is skipped and the account is left
		// with empty code.
	} else {
		child.gas -= depositCost
		hash := o.env.state.UpdateCode(code)
		o.env.state.UpdateCodeHash(child.account, hash, spec)
	}

	r.result.SetBytes20(child.created[:])
	parent.gas += child.gas
	parent.mergeSubstate(child)
}

// failCodeDeposit voids a create frame whose deposit could not be paid: the
// snapshots are restored and the remaining gas is discarded. The parent sees
// a plain zero result word.
func (o *orchestrator) failCodeDeposit(child *frame) {
	o.env.state.RestoreSnapshot(child.stateSnapshot)
	o.env.storage.RestoreSnapshot(child.storageSnapshot)
	child.gas = 0
}

// finishRoot turns the outcome of the root frame into the transaction level
// result.
func (o *orchestrator) finishRoot(root *frame, res status, fault error) (scarpia.Result, error) {
	defer root.release()
	o.pendingTouchOnRootExit(fault)

	switch {
	case fault != nil:
		o.env.state.RestoreSnapshot(root.stateSnapshot)
		o.env.storage.RestoreSnapshot(root.storageSnapshot)
		return scarpia.Result{}, fault

	case res == statusReverted:
		o.env.state.RestoreSnapshot(root.stateSnapshot)
		o.env.storage.RestoreSnapshot(root.storageSnapshot)
		return scarpia.Result{
			Success: false,
			Output:  root.returnData,
			GasLeft: root.gas,
		}, nil

	default:
		if root.kind == frameDirectCreate {
			return o.finishRootCreate(root)
		}
		return scarpia.Result{
			Success:   true,
			Output:    root.returnData,
			GasLeft:   root.gas,
			GasRefund: root.refund,
			Logs:      root.logs,
			Destroyed: root.destroyed,
		}, nil
	}
}

// pendingTouchOnRootExit applies a pending touch on an out-of-gas fault and
// clears the slot. Only nested precompile frames fill the slot, and their exit
// clears it again, so a direct precompile root never leaves a touch here.
func (o *orchestrator) pendingTouchOnRootExit(fault error) {
	if o.pendingTouch != nil && fault == errOutOfGas {
		o.env.state.Touch(*o.pendingTouch, o.env.spec)
	}
	o.pendingTouch = nil
}

// finishRootCreate applies the code deposit rules to a direct create root.
func (o *orchestrator) finishRootCreate(root *frame) (scarpia.Result, error) {
	code := root.returnData
	spec := o.env.spec

	depositFails := spec.EIP170 && len(code) > spec.Gas.MaxCodeSize
	depositCost := spec.Gas.CodeDeposit * scarpia.Gas(len(code))
	if !depositFails && root.gas >= depositCost {
		root.gas -= depositCost
		hash := o.env.state.UpdateCode(code)
		o.env.state.UpdateCodeHash(root.account, hash, spec)
	} else if depositFails || spec.EIP2 {
		o.env.state.RestoreSnapshot(root.stateSnapshot)
		o.env.storage.RestoreSnapshot(root.storageSnapshot)
		return scarpia.Result{}, errOutOfGas
	}

	return scarpia.Result{
		Success:        true,
		Output:         code,
		GasLeft:        root.gas,
		GasRefund:      root.refund,
		Logs:           root.logs,
		Destroyed:      root.destroyed,
		CreatedAddress: root.created,
	}, nil
}
