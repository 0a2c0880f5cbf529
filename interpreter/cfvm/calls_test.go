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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/Fantom-foundation/Scarpia/state"
	"github.com/holiman/uint256"
)

var testChild = scarpia.Address{0x99}

// buildCallAndReport assembles the byte code of a CALL to the given target
// followed by a report: the success word is stored at offset 0,
// RETURNDATASIZE at 32, the output window of the call is at 64, a
// RETURNDATACOPY of the whole return data lands at 96, and the full 128 bytes
// are returned.
func buildCallAndReport(target scarpia.Address, op OpCode) []byte {
	code := []byte{
		0x60, 0x20, // retSize 32
		0x60, 0x40, // retOffset 64
		0x60, 0x00, // inSize 0
		0x60, 0x00, // inOffset 0
	}
	if op == CALL || op == CALLCODE {
		code = append(code, 0x60, 0x00) // value 0
	}
	code = append(code, 0x73) // PUSH20 target
	code = append(code, target[:]...)
	code = append(code,
		0x61, 0xff, 0xff, // gas 0xffff
		byte(op),
		0x60, 0x00, 0x52, // store success word at 0
		0x3d, 0x60, 0x20, 0x52, // store RETURNDATASIZE at 32
		0x3d, 0x60, 0x00, 0x60, 0x60, 0x3e, // RETURNDATACOPY RETURNDATASIZE bytes to 96
		0x60, 0x80, 0x60, 0x00, 0xf3, // RETURN 128 bytes
	)
	return code
}

func TestCalls_NestedRevertIsIsolatedAndReportsOutput(t *testing.T) {
	// the child stores to its storage, writes 0xaa into memory, and reverts
	childCode := []byte{
		0x60, 0x01, 0x60, 0x0a, 0x55, // SSTORE 1 at key 10
		0x60, 0xaa, 0x60, 0x00, 0x52, // MSTORE 0xaa at 0
		0x60, 0x20, 0x60, 0x00, 0xfd, // REVERT 32 bytes
	}

	world := state.New()
	installCode(world, testChild, childCode)

	result, err := runCode(t, scarpia.ByzantiumSpec(), world,
		buildCallAndReport(testChild, CALL), 200_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("parent execution was not successful")
	}
	if want, got := 128, len(result.Output); want != got {
		t.Fatalf("unexpected output length, want %d, got %d", want, got)
	}

	// the call reported failure
	if got := result.Output[31]; got != 0 {
		t.Errorf("unexpected success word, want 0, got %d", got)
	}
	// the return data of the reverted child is fully visible
	if want, got := byte(32), result.Output[63]; want != got {
		t.Errorf("unexpected return data size, want %d, got %d", want, got)
	}
	wantData := make([]byte, 32)
	wantData[31] = 0xaa
	if !bytes.Equal(wantData, result.Output[64:96]) {
		t.Errorf("unexpected output window content: %x", result.Output[64:96])
	}
	if !bytes.Equal(wantData, result.Output[96:128]) {
		t.Errorf("unexpected return data copy: %x", result.Output[96:128])
	}

	// the child's storage write was rolled back
	key := scarpia.Key{}
	key[31] = 0x0a
	if got := world.Get(testChild, key); got != (scarpia.Word{}) {
		t.Errorf("storage write survived the revert: %v", got)
	}

	// the unused portion of the forwarded gas returned to the parent
	if result.GasLeft < 100_000 {
		t.Errorf("forwarded gas was not returned, gas left %d", result.GasLeft)
	}
}

func TestCalls_NestedExceptionConsumesForwardedGas(t *testing.T) {
	world := state.New()
	installCode(world, testChild, []byte{0xfe}) // invalid instruction

	limit := scarpia.Gas(200_000)
	result, err := runCode(t, scarpia.ByzantiumSpec(), world,
		buildCallAndReport(testChild, CALL), limit, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// failure is reported, the return data buffer is empty
	if got := result.Output[31]; got != 0 {
		t.Errorf("unexpected success word, want 0, got %d", got)
	}
	if got := result.Output[63]; got != 0 {
		t.Errorf("unexpected return data size, want 0, got %d", got)
	}
	// the forwarded gas is lost
	if used := limit - result.GasLeft; used < 0xffff {
		t.Errorf("child gas was returned despite the exception, used only %d", used)
	}
}

func TestCalls_StaticCalleeCannotWriteState(t *testing.T) {
	world := state.New()
	installCode(world, testChild, []byte{0x60, 0x01, 0x60, 0x00, 0x55}) // SSTORE

	result, err := runCode(t, scarpia.ByzantiumSpec(), world,
		buildCallAndReport(testChild, STATICCALL), 200_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Output[31]; got != 0 {
		t.Errorf("static violation did not fail the child, success word %d", got)
	}
	if got := world.Get(testChild, scarpia.Key{}); got != (scarpia.Word{}) {
		t.Errorf("storage write in static context persisted: %v", got)
	}
}

func TestCalls_ValueBearingCallInStaticContextFails(t *testing.T) {
	// the child attempts a CALL with value 1 to some address
	childCode := []byte{
		0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00, // ret/in ranges
		0x60, 0x01, // value 1
		0x60, 0x77, // target
		0x60, 0xff, // gas
		0xf1,
	}
	world := state.New()
	installCode(world, testChild, childCode)

	result, err := runCode(t, scarpia.ByzantiumSpec(), world,
		buildCallAndReport(testChild, STATICCALL), 200_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Output[31]; got != 0 {
		t.Errorf("value transfer in static context did not fail, success word %d", got)
	}
}

func TestCalls_DelegateCallRunsInCallerContext(t *testing.T) {
	world := state.New()
	installCode(world, testChild, []byte{0x60, 0x2a, 0x60, 0x00, 0x55}) // SSTORE 42 at 0

	result, err := runCode(t, scarpia.ByzantiumSpec(), world,
		buildCallAndReport(testChild, DELEGATECALL), 200_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Output[31]; got != 1 {
		t.Fatalf("delegate call failed, success word %d", got)
	}

	// the write went to the caller's storage, not the code owner's
	want := scarpia.Word{}
	want[31] = 42
	if got := world.Get(testRecipient, scarpia.Key{}); got != want {
		t.Errorf("unexpected caller storage content: %v", got)
	}
	if got := world.Get(testChild, scarpia.Key{}); got != (scarpia.Word{}) {
		t.Errorf("unexpected code owner storage content: %v", got)
	}
}

func TestCalls_ValueTransferMovesBalanceAndGrantsStipend(t *testing.T) {
	childCode := []byte{0x00} // STOP
	world := state.New()
	world.CreateAccount(testRecipient, scarpia.NewValue(10))
	installCode(world, testChild, childCode)

	// CALL with value 3
	code := []byte{
		0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00, // ret/in ranges
		0x60, 0x03, // value 3
		0x73,
	}
	code = append(code, testChild[:]...)
	code = append(code, 0x61, 0xff, 0xff, 0xf1, // gas, CALL
		0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3) // return success word

	result, err := runCode(t, scarpia.ByzantiumSpec(), world, code, 200_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Output[31]; got != 1 {
		t.Fatalf("call failed, success word %d", got)
	}
	if want, got := scarpia.NewValue(7), world.GetBalance(testRecipient); want != got {
		t.Errorf("unexpected sender balance, want %v, got %v", want, got)
	}
	if want, got := scarpia.NewValue(3), world.GetBalance(testChild); want != got {
		t.Errorf("unexpected recipient balance, want %v, got %v", want, got)
	}

	// the callee received the stipend on top of the forwarded gas and handed
	// it back unused: seven pushes, CALL, the value surcharge less the
	// stipend, and the report including one word of memory growth
	wantUsed := scarpia.Gas(7*3) + 700 + 9000 - 2300 + scarpia.Gas(5*3)
	if got := 200_000 - result.GasLeft; wantUsed != got {
		t.Errorf("unexpected gas usage, want %d, got %d", wantUsed, got)
	}
}

func TestCalls_InsufficientBalanceYieldsZeroWithoutChildFrame(t *testing.T) {
	world := state.New()
	installCode(world, testChild, []byte{0x60, 0x01, 0x60, 0x00, 0x55}) // would SSTORE

	// CALL with value 3, but the caller owns nothing
	code := []byte{
		0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00,
		0x60, 0x03,
		0x73,
	}
	code = append(code, testChild[:]...)
	code = append(code, 0x61, 0xff, 0xff, 0xf1,
		0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3)

	result, err := runCode(t, scarpia.ByzantiumSpec(), world, code, 200_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Output[31]; got != 0 {
		t.Errorf("insolvent call did not fail, success word %d", got)
	}
	if got := world.Get(testChild, scarpia.Key{}); got != (scarpia.Word{}) {
		t.Errorf("child was executed despite insolvency")
	}
}

func TestCalls_DeepRecursionTerminates(t *testing.T) {
	// the contract calls itself with all available gas and stops
	code := []byte{
		0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00, // ranges and value
		0x30, // ADDRESS
		0x5a, // GAS
		0xf1, // CALL
		0x00, // STOP
	}
	result, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 10_000_000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("recursive execution did not succeed")
	}
}

func TestForwardedGas_AppliesSixtyThreeSixtyFourthRule(t *testing.T) {
	tests := map[string]struct {
		spec      *scarpia.Spec
		gas       scarpia.Gas
		requested uint64
		forwarded scarpia.Gas
		err       error
	}{
		"eip150 caps large requests": {
			spec: scarpia.ByzantiumSpec(), gas: 6400, requested: 1 << 40, forwarded: 6300,
		},
		"eip150 grants small requests": {
			spec: scarpia.ByzantiumSpec(), gas: 6400, requested: 1000, forwarded: 1000,
		},
		"frontier grants full requests": {
			spec: scarpia.FrontierSpec(), gas: 6400, requested: 6400, forwarded: 6400,
		},
		"frontier fails on excessive requests": {
			spec: scarpia.FrontierSpec(), gas: 6400, requested: 6401, err: errOutOfGas,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctxt := getEmptyContext()
			ctxt.env.spec = test.spec
			ctxt.gas = test.gas
			forwarded, err := forwardedGas(&ctxt, uint256.NewInt(test.requested), test.spec)
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error, want %v, got %v", test.err, err)
			}
			if err != nil {
				return
			}
			if want, got := test.forwarded, forwarded; want != got {
				t.Errorf("unexpected forwarded gas, want %d, got %d", want, got)
			}
			if want, got := test.gas-test.forwarded, ctxt.gas; want != got {
				t.Errorf("unexpected remaining gas, want %d, got %d", want, got)
			}
		})
	}
}
