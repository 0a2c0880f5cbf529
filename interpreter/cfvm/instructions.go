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
	"bytes"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/holiman/uint256"
)

// checkSizeOffsetUint64Overflow verifies that offset and size describe a
// memory range expressible in uint64 arithmetic.
func checkSizeOffsetUint64Overflow(offset, size *uint256.Int) error {
	if size.IsZero() {
		return nil
	}
	if !offset.IsUint64() || !size.IsUint64() || offset.Uint64() > offset.Uint64()+size.Uint64() {
		return errGasUintOverflow
	}
	return nil
}

// getDataSlice returns size bytes of data starting at offset, padding with
// zeros where the source ends.
func getDataSlice(data []byte, offset, size uint64) []byte {
	if offset > uint64(len(data)) {
		offset = uint64(len(data))
	}
	end := offset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	res := make([]byte, size)
	copy(res, data[offset:end])
	return res
}

func opEndWithResult(c *context) error {
	offset := c.stack.pop()
	size := c.stack.pop()
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}
	var err error
	c.returnData, err = c.memory.getSlice(offset.Uint64(), size.Uint64(), c)
	return err
}

func opRevert(c *context) error {
	if !c.spec().EIP140 {
		return errInvalidInstruction
	}
	return opEndWithResult(c)
}

func opPc(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.pc))
}

func checkJumpDest(c *context, destination *uint256.Int) (uint64, error) {
	// The destination must fit a machine-sized integer and be a valid
	// JUMPDEST; everything else is fatal to the frame.
	if !destination.IsUint64() {
		return 0, errInvalidJump
	}
	dest := destination.Uint64()
	if !c.code.isValidJumpTarget(dest) {
		return 0, errInvalidJump
	}
	return dest, nil
}

func opJump(c *context) error {
	destination := c.stack.pop()
	dest, err := checkJumpDest(c, destination)
	if err != nil {
		return err
	}
	// The loop increases the PC by one afterward, landing on the JUMPDEST.
	c.pc = int32(dest) - 1
	return nil
}

func opJumpi(c *context) error {
	destination := c.stack.pop()
	condition := c.stack.pop()
	if condition.IsZero() {
		return nil
	}
	dest, err := checkJumpDest(c, destination)
	if err != nil {
		return err
	}
	c.pc = int32(dest) - 1
	return nil
}

func opPop(c *context) {
	c.stack.pop()
}

func opPush(c *context, n int) {
	z := c.stack.pushUndefined()
	code := c.code.code
	start := int(c.pc) + 1
	if start >= len(code) {
		z.Clear()
	} else if start+n <= len(code) {
		z.SetBytes(code[start : start+n])
	} else {
		// The immediate is truncated by the end of the code and read as if
		// right-padded with zeros.
		var data [32]byte
		copy(data[:n], code[start:])
		z.SetBytes(data[:n])
	}
	c.pc += int32(n)
}

func opDup(c *context, pos int) {
	c.stack.dup(pos - 1)
}

func opSwap(c *context, pos int) {
	c.stack.swap(pos)
}

func opMstore(c *context) error {
	addr := c.stack.pop()
	value := c.stack.pop()

	offset, overflow := addr.Uint64WithOverflow()
	if overflow {
		return errGasUintOverflow
	}
	return c.memory.setWord(offset, value, c)
}

func opMstore8(c *context) error {
	addr := c.stack.pop()
	value := c.stack.pop()

	offset, overflow := addr.Uint64WithOverflow()
	if overflow {
		return errGasUintOverflow
	}
	return c.memory.setByte(offset, byte(value.Uint64()), c)
}

func opMload(c *context) error {
	top := c.stack.peek()

	offset, overflow := top.Uint64WithOverflow()
	if overflow {
		return errGasUintOverflow
	}
	return c.memory.getWord(offset, top, c)
}

func opMsize(c *context) {
	c.stack.pushUndefined().SetUint64(c.memory.length())
}

func opSstore(c *context) error {
	// SSTORE is a write instruction, it shall not be executed in static mode.
	if c.static {
		return errStaticViolation
	}

	key := scarpia.Key(c.stack.pop().Bytes32())
	value := scarpia.Word(c.stack.pop().Bytes32())

	// The reset price is due for every store; setting a zero slot to a
	// non-zero value upgrades the charge to the set price.
	schedule := c.spec().Gas
	if err := c.useGas(schedule.SReset); err != nil {
		return err
	}

	prev := c.env.storage.Get(c.account, key)
	zero := scarpia.Word{}
	if prev == zero && value != zero {
		if err := c.useGas(schedule.SSet - schedule.SReset); err != nil {
			return err
		}
	}
	if prev != zero && value == zero {
		c.refund += schedule.SClear
	}
	if prev != value {
		c.env.storage.Set(c.account, key, value)
	}
	return nil
}

func opSload(c *context) {
	top := c.stack.peek()
	key := scarpia.Key(top.Bytes32())
	value := c.env.storage.Get(c.account, key)
	top.SetBytes32(value[:])
}

func opCaller(c *context) {
	c.stack.pushUndefined().SetBytes20(c.caller[:])
}

func opCallvalue(c *context) {
	c.stack.pushUndefined().SetBytes32(c.value[:])
}

func opCallDatasize(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(len(c.input)))
}

func opCallDataload(c *context) {
	top := c.stack.peek()
	if !top.IsUint64() {
		top.Clear()
		return
	}
	top.SetBytes(getDataSlice(c.input, top.Uint64(), 32))
}

// genericDataCopy copies a zero-padded slice of the given data source into
// memory; it implements CALLDATACOPY and CODECOPY.
func genericDataCopy(c *context, data []byte) error {
	memOffset := c.stack.pop()
	dataOffset := c.stack.pop()
	length := c.stack.pop()

	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}

	words := scarpia.SizeInWords(length.Uint64())
	if err := c.useGas(c.spec().Gas.Copy * scarpia.Gas(words)); err != nil {
		return err
	}

	offset := uint64(len(data))
	if dataOffset.IsUint64() {
		offset = dataOffset.Uint64()
	}
	return c.memory.set(memOffset.Uint64(), getDataSlice(data, offset, length.Uint64()), c)
}

func opAnd(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.And(a, b)
}

func opOr(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Or(a, b)
}

func opXor(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Xor(a, b)
}

func opNot(c *context) {
	a := c.stack.peek()
	a.Not(a)
}

func opIszero(c *context) {
	top := c.stack.peek()
	if top.IsZero() {
		top.SetOne()
	} else {
		top.Clear()
	}
}

func opEq(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	if a.Eq(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opLt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	if a.Lt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opGt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	if a.Gt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opSlt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	if a.Slt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opSgt(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	if a.Sgt(b) {
		b.SetOne()
	} else {
		b.Clear()
	}
}

func opSignExtend(c *context) {
	back, num := c.stack.pop(), c.stack.peek()
	num.ExtendSign(num, back)
}

func opByte(c *context) {
	th, val := c.stack.pop(), c.stack.peek()
	val.Byte(th)
}

func opAdd(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Add(a, b)
}

func opSub(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Sub(a, b)
}

func opMul(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Mul(a, b)
}

func opDiv(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Div(a, b)
}

func opSDiv(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.SDiv(a, b)
}

func opMod(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.Mod(a, b)
}

func opSMod(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	b.SMod(a, b)
}

func opAddMod(c *context) {
	a := c.stack.pop()
	b := c.stack.pop()
	n := c.stack.peek()
	n.AddMod(a, b, n)
}

func opMulMod(c *context) {
	a := c.stack.pop()
	b := c.stack.pop()
	n := c.stack.peek()
	n.MulMod(a, b, n)
}

func opExp(c *context) error {
	base, exponent := c.stack.pop(), c.stack.peek()
	if err := c.useGas(c.spec().Gas.ExpByte * scarpia.Gas(exponent.ByteLen())); err != nil {
		return err
	}
	exponent.Exp(base, exponent)
	return nil
}

func opSha3(c *context) error {
	offset, size := c.stack.pop(), c.stack.peek()

	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}

	words := scarpia.SizeInWords(size.Uint64())
	if err := c.useGas(c.spec().Gas.Sha3Word * scarpia.Gas(words)); err != nil {
		return err
	}

	data, err := c.memory.getSlice(offset.Uint64(), size.Uint64(), c)
	if err != nil {
		return err
	}

	hash := Keccak256(data)
	size.SetBytes32(hash[:])
	return nil
}

func opGas(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.gas))
}

func opGasPrice(c *context) {
	price := c.env.txn.GasPrice
	c.stack.pushUndefined().SetBytes32(price[:])
}

func opBalance(c *context) {
	top := c.stack.peek()
	addr := scarpia.Address(top.Bytes20())
	balance := c.env.state.GetBalance(addr)
	top.SetBytes32(balance[:])
}

func opTimestamp(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.env.block.Timestamp))
}

func opNumber(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.env.block.Number))
}

func opCoinbase(c *context) {
	coinbase := c.env.block.Coinbase
	c.stack.pushUndefined().SetBytes20(coinbase[:])
}

func opGasLimit(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.env.block.GasLimit))
}

func opDifficulty(c *context) {
	difficulty := c.env.block.Difficulty
	c.stack.pushUndefined().SetBytes32(difficulty[:])
}

func opBlockhash(c *context) {
	num := c.stack.peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return
	}
	if hash, found := c.env.blockHash.BlockHash(&c.env.block, num64); found {
		num.SetBytes(hash[:])
	} else {
		num.Clear()
	}
}

func opAddress(c *context) {
	c.stack.pushUndefined().SetBytes20(c.account[:])
}

func opOrigin(c *context) {
	origin := c.env.txn.Origin
	c.stack.pushUndefined().SetBytes20(origin[:])
}

func opCodeSize(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.code.length()))
}

func opExtcodesize(c *context) {
	top := c.stack.peek()
	addr := scarpia.Address(top.Bytes20())
	code := c.env.state.GetCode(c.env.state.GetCodeHash(addr))
	top.SetUint64(uint64(len(code)))
}

func opExtCodeCopy(c *context) error {
	addr := scarpia.Address(c.stack.pop().Bytes20())
	code := c.env.state.GetCode(c.env.state.GetCodeHash(addr))
	return genericDataCopy(c, code)
}

func opReturnDataSize(c *context) error {
	if !c.spec().EIP211 {
		return errInvalidInstruction
	}
	c.stack.pushUndefined().SetUint64(uint64(len(c.returnData)))
	return nil
}

func opReturnDataCopy(c *context) error {
	if !c.spec().EIP211 {
		return errInvalidInstruction
	}

	memOffset := c.stack.pop()
	dataOffset := c.stack.pop()
	length := c.stack.pop()

	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return errReturnDataOutOfBounds
	}
	end := new(uint256.Int).Add(dataOffset, length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow {
		return errReturnDataOutOfBounds
	}

	// Reading beyond the end of the return data aborts the frame.
	if uint64(len(c.returnData)) < end64 {
		return errReturnDataOutOfBounds
	}

	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}

	words := scarpia.SizeInWords(length.Uint64())
	if err := c.useGas(c.spec().Gas.Copy * scarpia.Gas(words)); err != nil {
		return err
	}

	return c.memory.set(memOffset.Uint64(), c.returnData[offset64:end64], c)
}

func opLog(c *context, size int) error {
	// LogN op codes are write instructions, they shall not be executed in
	// static mode.
	if c.static {
		return errStaticViolation
	}

	stack := c.stack
	mStart, mSize := stack.pop(), stack.pop()

	if err := checkSizeOffsetUint64Overflow(mStart, mSize); err != nil {
		return err
	}

	topics := make([]scarpia.Hash, size)
	for i := 0; i < size; i++ {
		topics[i] = stack.pop().Bytes32()
	}

	logSize := mSize.Uint64()
	if err := c.useGas(c.spec().Gas.LogData * scarpia.Gas(logSize)); err != nil {
		return err
	}

	data, err := c.memory.getSlice(mStart.Uint64(), logSize, c)
	if err != nil {
		return err
	}

	// make a copy of the data to disconnect from memory
	c.logs = append(c.logs, scarpia.Log{
		Address: c.account,
		Topics:  topics,
		Data:    bytes.Clone(data),
	})
	return nil
}

func opSelfdestruct(c *context) (status, error) {
	// SELFDESTRUCT is a write instruction, it shall not be executed in
	// static mode.
	if c.static {
		return statusStopped, errStaticViolation
	}

	inheritor := scarpia.Address(c.stack.pop().Bytes20())
	state := c.env.state
	balance := state.GetBalance(c.account)

	if err := c.useGas(selfDestructNewAccountCost(c, inheritor, balance)); err != nil {
		return statusStopped, err
	}

	if !c.env.isDestroyed(c.account) && !c.hasDestroyed(c.account) {
		c.refund += c.spec().Gas.SelfDestructRefund
		c.destroyed = append(c.destroyed, c.account)
	}

	// Moving the balance only when the inheritor is a distinct account keeps
	// the total supply unchanged; the destroy-set deletion consumes the
	// remainder of a self-inheriting account either way.
	if inheritor != c.account {
		state.AddBalance(inheritor, balance, c.spec())
	}
	state.SubBalance(c.account, balance, c.spec())

	return statusSelfDestructed, nil
}

// selfDestructNewAccountCost is the surcharge for directing a self-destruct
// at an account that would have to be created, as introduced by EIP-150 and
// narrowed by EIP-158.
func selfDestructNewAccountCost(c *context, inheritor scarpia.Address, balance scarpia.Value) scarpia.Gas {
	spec := c.spec()
	if !spec.EIP150 {
		return 0
	}
	if spec.EIP158 {
		if c.env.state.IsDeadAccount(inheritor) && !balance.IsZero() {
			return spec.Gas.NewAccount
		}
		return 0
	}
	if !c.env.state.AccountExists(inheritor) {
		return spec.Gas.NewAccount
	}
	return 0
}
