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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// genericCall implements the CALL family. It pops the call parameters,
// charges the memory and transfer surcharges, determines the gas forwarded to
// the callee, and suspends the frame with a child descriptor. The output
// window of the parent memory is sized here but not written before
// resumption.
func genericCall(c *context, kind scarpia.CallKind) error {
	stack := c.stack
	value := uint256.NewInt(0)

	providedGas, addr := stack.pop(), stack.pop()
	if kind == scarpia.Call || kind == scarpia.CallCode {
		value = stack.pop()
	}
	inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop()

	toAddr := scarpia.Address(addr.Bytes20())

	// A value-bearing CALL mutates balances and is banned in a static
	// context; CALLCODE only moves funds within the executing account.
	if kind == scarpia.Call && !value.IsZero() && c.static {
		return errStaticViolation
	}

	if err := checkSizeOffsetUint64Overflow(inOffset, inSize); err != nil {
		return err
	}
	if err := checkSizeOffsetUint64Overflow(retOffset, retSize); err != nil {
		return err
	}

	// Charge the growth for the input region and obtain the arguments.
	args, err := c.memory.getSlice(inOffset.Uint64(), inSize.Uint64(), c)
	if err != nil {
		return err
	}
	// Charge the growth for the output region. The content of the window is
	// not touched until the child result is applied.
	if err := c.memory.expandMemory(retOffset.Uint64(), retSize.Uint64(), c); err != nil {
		return err
	}

	spec := c.spec()

	// Charge for transferring value to the callee.
	if !value.IsZero() {
		if err := c.useGas(spec.Gas.CallValue); err != nil {
			return err
		}
	}

	// Calls conjuring up a new account on the state are charged an
	// additional fee; EIP-158 narrowed this to value-bearing calls
	// resurrecting dead accounts.
	if kind == scarpia.Call {
		charge := false
		if spec.EIP158 {
			charge = !value.IsZero() && c.env.state.IsDeadAccount(toAddr)
		} else {
			charge = !c.env.state.AccountExists(toAddr)
		}
		if charge {
			if err := c.useGas(spec.Gas.NewAccount); err != nil {
				return err
			}
		}
	}

	forwarded, err := forwardedGas(c, providedGas, spec)
	if err != nil {
		return err
	}

	// The stipend is granted to the callee after the parent paid for the
	// forwarded gas.
	if !value.IsZero() {
		forwarded += spec.Gas.CallStipend
	}

	if c.depth+1 > maxCallDepth {
		stack.pushUndefined().Clear()
		c.returnData = nil
		c.gas += forwarded
		return nil
	}

	// Check that the caller has enough balance to transfer the requested
	// value; a failing check yields a zero result word without spawning a
	// child frame, and the forwarded gas is returned.
	if !value.IsZero() && kind != scarpia.DelegateCall {
		balance := c.env.state.GetBalance(c.account)
		if balance.ToUint256().Lt(value) {
			stack.pushUndefined().Clear()
			c.returnData = nil
			c.gas += forwarded
			return nil
		}
	}

	child := newFrame(frameCall, forwarded, c.depth+1, c.static || kind == scarpia.StaticCall)
	child.input = args
	child.outOffset = retOffset.Uint64()
	child.outSize = retSize.Uint64()

	switch kind {
	case scarpia.Call, scarpia.StaticCall:
		child.caller = c.account
		child.account = toAddr
		child.value = scarpia.ValueFromUint256(value)
		child.transfer = child.value
	case scarpia.CallCode:
		child.kind = frameCallCode
		child.caller = c.account
		child.account = c.account
		child.value = scarpia.ValueFromUint256(value)
		child.transfer = child.value
	case scarpia.DelegateCall:
		child.kind = frameCallCode
		child.caller = c.caller
		child.account = c.account
		child.value = c.value
	}

	if handler, found := c.env.precompiles[toAddr]; found {
		child.kind = framePrecompile
		child.precompile = handler
	} else {
		codeHash := c.env.state.GetCodeHash(toAddr)
		code := c.env.state.GetCode(codeHash)
		child.code = c.env.codes.get(&codeHash, code)
	}

	c.child = child
	return nil
}

// forwardedGas determines the gas handed to a child call and charges it to
// the parent. With EIP-150, the request is capped at all but one 64th of the
// remaining gas; before, a request exceeding the remaining gas is fatal.
func forwardedGas(c *context, requested *uint256.Int, spec *scarpia.Spec) (scarpia.Gas, error) {
	if spec.EIP150 {
		available := c.gas - c.gas/64
		forwarded := available
		if requested.IsUint64() && requested.Uint64() <= uint64(available) {
			forwarded = scarpia.Gas(requested.Uint64())
		}
		return forwarded, c.useGas(forwarded)
	}
	if !requested.IsUint64() || requested.Uint64() > uint64(c.gas) {
		return 0, errOutOfGas
	}
	forwarded := scarpia.Gas(requested.Uint64())
	return forwarded, c.useGas(forwarded)
}

func opDelegateCall(c *context) error {
	if !c.spec().EIP7 {
		return errInvalidInstruction
	}
	return genericCall(c, scarpia.DelegateCall)
}

func opStaticCall(c *context) error {
	if !c.spec().EIP214 {
		return errInvalidInstruction
	}
	return genericCall(c, scarpia.StaticCall)
}

// genericCreate implements CREATE. Collisions and balance shortages resolve
// without a child frame, consuming only the base cost and the memory growth
// for the initialization code.
func genericCreate(c *context) error {
	// CREATE is a write instruction, it shall not be executed in static mode.
	if c.static {
		return errStaticViolation
	}

	value := c.stack.pop()
	offset := c.stack.pop()
	size := c.stack.pop()

	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}

	initCode, err := c.memory.getSlice(offset.Uint64(), size.Uint64(), c)
	if err != nil {
		return err
	}

	if c.depth+1 > maxCallDepth {
		c.stack.pushUndefined().Clear()
		c.returnData = nil
		return nil
	}

	if !value.IsZero() {
		balance := c.env.state.GetBalance(c.account)
		if balance.ToUint256().Lt(value) {
			c.stack.pushUndefined().Clear()
			c.returnData = nil
			return nil
		}
	}

	state := c.env.state
	nonce := state.GetNonce(c.account)
	state.IncrementNonce(c.account)

	created := createAddress(c.account, nonce)

	// An occupied target address fails the creation outright: no child frame
	// is spawned and no gas is forwarded.
	if collidesWith(state, created) {
		c.stack.pushUndefined().Clear()
		c.returnData = nil
		return nil
	}

	gas := c.gas
	if c.spec().EIP150 {
		gas -= gas / 64
	}
	if err := c.useGas(gas); err != nil {
		return err
	}

	child := newFrame(frameCreate, gas, c.depth+1, c.static)
	child.caller = c.account
	child.account = created
	child.created = created
	child.value = scarpia.ValueFromUint256(value)
	child.transfer = child.value
	child.code = c.env.codes.get(nil, initCode)

	c.child = child
	return nil
}

// createAddress derives the address of a created contract from the creator
// and its nonce, keccak(rlp([sender, nonce]))[12:].
func createAddress(sender scarpia.Address, nonce uint64) scarpia.Address {
	return scarpia.Address(crypto.CreateAddress(common.Address(sender), nonce))
}
