// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cfvm provides the call-frame virtual machine, an EVM interpreter
// organized around an explicit stack of execution frames. The interpreter is
// a pure function of a single frame that suspends on nested calls and
// creates; an orchestrator owns the frame stack, runs children to completion,
// and resumes parents with the child's result word and output. Faults are
// values, not panics, and only the orchestrator translates them into frame
// unwinding.
package cfvm

import (
	"fmt"

	"github.com/Fantom-foundation/Scarpia/scarpia"
)

// Config contains the construction parameters of a VM instance.
type Config struct {
	// CodeCacheCapacity is the number of code analysis results retained by
	// the VM. A zero value selects the default capacity, a negative value
	// disables caching.
	CodeCacheCapacity int
}

// VM is a call-frame EVM interpreter instance. Instances are stateless apart
// from the code cache and may be shared; runs are strictly sequential within
// one transaction, but independent transactions may run on the same VM
// concurrently since cache entries are immutable.
type VM struct {
	codes *codeCache
}

// NewVM creates a VM instance with the provided configuration.
func NewVM(config Config) (*VM, error) {
	codes, err := newCodeCache(config.CodeCacheCapacity)
	if err != nil {
		return nil, err
	}
	return &VM{codes: codes}, nil
}

// Run executes the root invocation described by the parameters. The error is
// nil for completed executions, including reverted ones; it is one of the
// scarpia fault sentinels when the root frame halted exceptionally, and an
// internal error otherwise.
func (vm *VM) Run(params scarpia.Parameters) (scarpia.Result, error) {
	if params.Spec == nil {
		return scarpia.Result{}, fmt.Errorf("missing release specification")
	}
	if params.State == nil || params.Storage == nil {
		return scarpia.Result{}, fmt.Errorf("missing state or storage store")
	}

	blockHash := params.BlockHash
	if blockHash == nil {
		blockHash = noBlockHashes{}
	}

	env := &runEnv{
		spec:        params.Spec,
		block:       params.BlockParameters,
		txn:         params.TransactionParameters,
		state:       params.State,
		storage:     params.Storage,
		blockHash:   blockHash,
		tracer:      params.Tracer,
		codes:       vm.codes,
		prices:      newStaticGasPrices(params.Spec),
		precompiles: newPrecompiles(params.Spec),
	}

	root, err := vm.newRootFrame(env, params)
	if err != nil {
		return scarpia.Result{}, err
	}

	return newOrchestrator(env).run(root)
}

// newRootFrame builds the root frame of a run: a Transaction frame executing
// the recipient's code, a DirectPrecompile frame when the recipient is a
// precompiled contract, or a DirectCreate frame running the input as
// initialization code. Value movement and nonce bookkeeping of the
// transaction itself are the processor's business; only the create ceremony
// is performed in-core.
func (vm *VM) newRootFrame(env *runEnv, params scarpia.Parameters) (*frame, error) {
	static := params.Static || params.Kind == scarpia.StaticCall

	if params.Kind == scarpia.Create {
		created := createAddress(params.Sender, env.state.GetNonce(params.Sender))
		if collidesWith(env.state, created) {
			return nil, scarpia.ErrCreateCollision
		}
		root := newFrame(frameDirectCreate, params.Gas, params.Depth, static)
		root.caller = params.Sender
		root.account = created
		root.created = created
		root.value = params.Value
		root.transfer = params.Value
		root.code = env.codes.get(nil, params.Input)
		return root, nil
	}

	if handler, found := env.precompiles[params.Recipient]; found {
		root := newFrame(frameDirectPrecompile, params.Gas, params.Depth, static)
		root.caller = params.Sender
		root.account = params.Recipient
		root.value = params.Value
		root.input = params.Input
		root.precompile = handler
		return root, nil
	}

	code := params.Code
	codeHash := params.CodeHash
	if code == nil {
		hash := env.state.GetCodeHash(params.Recipient)
		code = scarpia.Code(env.state.GetCode(hash))
		codeHash = &hash
	}

	root := newFrame(frameTransaction, params.Gas, params.Depth, static)
	root.caller = params.Sender
	root.account = params.Recipient
	root.value = params.Value
	root.input = params.Input
	root.code = env.codes.get(codeHash, code)
	return root, nil
}

// noBlockHashes is the oracle used when none is configured; every lookup
// fails, making BLOCKHASH produce zero words.
type noBlockHashes struct{}

func (noBlockHashes) BlockHash(*scarpia.BlockParameters, uint64) (scarpia.Hash, bool) {
	return scarpia.Hash{}, false
}

// collidesWith returns true if an account with a non-zero nonce or non-empty
// code occupies the given address.
func collidesWith(state scarpia.StateStore, addr scarpia.Address) bool {
	if state.GetNonce(addr) != 0 {
		return true
	}
	codeHash := state.GetCodeHash(addr)
	return codeHash != (scarpia.Hash{}) && codeHash != emptyCodeHash
}
