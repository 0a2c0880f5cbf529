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
	"reflect"
	"testing"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/Fantom-foundation/Scarpia/state"
)

var (
	testSender    = scarpia.Address{0x42}
	testRecipient = scarpia.Address{0x43}
)

// installCode stores the given code under the given address.
func installCode(world *state.InMemory, addr scarpia.Address, code []byte) {
	hash := world.UpdateCode(code)
	world.UpdateCodeHash(addr, hash, nil)
}

// runCode executes the given code in the context of testRecipient on the
// given world state.
func runCode(t *testing.T, spec *scarpia.Spec, world *state.InMemory, code []byte, gas scarpia.Gas, tracer scarpia.Tracer) (scarpia.Result, error) {
	t.Helper()
	vm, err := NewVM(Config{})
	if err != nil {
		t.Fatalf("failed to create VM: %v", err)
	}
	installCode(world, testRecipient, code)
	return vm.Run(scarpia.Parameters{
		Spec:      spec,
		State:     world,
		Storage:   world.Storage(),
		Tracer:    tracer,
		Kind:      scarpia.Call,
		Gas:       gas,
		Recipient: testRecipient,
		Sender:    testSender,
		Code:      code,
	})
}

func TestInterpreter_ArithmeticProgramProducesResultAndGasUsage(t *testing.T) {
	// PUSH1 3, PUSH1 5, MUL, PUSH1 0, MSTORE, PUSH1 32, PUSH1 0, RETURN
	code := []byte{
		0x60, 0x03, 0x60, 0x05, 0x02,
		0x60, 0x00, 0x52,
		0x60, 0x20, 0x60, 0x00, 0xf3,
	}

	result, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution was not successful")
	}

	want := make([]byte, 32)
	want[31] = 15
	if !bytes.Equal(want, result.Output) {
		t.Errorf("unexpected output, want %x, got %x", want, result.Output)
	}

	// five pushes, MUL, MSTORE, and one word of memory growth
	wantGas := scarpia.Gas(5*3 + 5 + 3 + 3)
	if got := 100 - result.GasLeft; wantGas != got {
		t.Errorf("unexpected gas usage, want %d, got %d", wantGas, got)
	}
}

func TestInterpreter_UnderflowingProgramFails(t *testing.T) {
	result, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), []byte{0x01}, 100, nil)
	if !errors.Is(err, scarpia.ErrStackUnderflow) {
		t.Fatalf("unexpected error, want %v, got %v", scarpia.ErrStackUnderflow, err)
	}
	if len(result.Output) != 0 || len(result.Logs) != 0 {
		t.Errorf("unexpected result content: %+v", result)
	}
}

func TestInterpreter_JumpToNonJumpDestFails(t *testing.T) {
	tests := map[string][]byte{
		"beyond the end":       {0x60, 0x03, 0x56},             // PUSH1 3, JUMP
		"onto data byte":       {0x60, 0x04, 0x56, 0x60, 0x5b}, // target is push data
		"onto plain op":        {0x60, 0x03, 0x56, 0x00},       // target is STOP
		"conditional jump":     {0x60, 0x01, 0x60, 0x05, 0x57}, // JUMPI with true condition
		"non-integer jump":     {0x60, 0x00, 0x19, 0x56},       // NOT(0) as destination
	}

	for name, code := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100, nil)
			if !errors.Is(err, scarpia.ErrInvalidJump) {
				t.Fatalf("unexpected error, want %v, got %v", scarpia.ErrInvalidJump, err)
			}
		})
	}
}

func TestInterpreter_UntakenJumpiIsHarmless(t *testing.T) {
	// PUSH1 0, PUSH1 32, JUMPI, STOP — the invalid target is never taken
	code := []byte{0x60, 0x00, 0x60, 0x20, 0x57, 0x00}
	result, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("execution was not successful")
	}
}

func TestInterpreter_StackOverflowTerminatesProgram(t *testing.T) {
	// JUMPDEST, PUSH1 1, PUSH1 0, JUMP — pushes one element per iteration
	code := []byte{0x5b, 0x60, 0x01, 0x60, 0x00, 0x56}
	_, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 1_000_000, nil)
	if !errors.Is(err, scarpia.ErrStackOverflow) {
		t.Fatalf("unexpected error, want %v, got %v", scarpia.ErrStackOverflow, err)
	}
}

func TestInterpreter_InvalidInstructionFails(t *testing.T) {
	_, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), []byte{0xfe}, 100, nil)
	if !errors.Is(err, scarpia.ErrInvalidInstruction) {
		t.Fatalf("unexpected error, want %v, got %v", scarpia.ErrInvalidInstruction, err)
	}
}

func TestInterpreter_ForkDisabledInstructionsFail(t *testing.T) {
	tests := map[string]struct {
		spec *scarpia.Spec
		code []byte
	}{
		"revert before byzantium": {
			spec: scarpia.SpuriousDragonSpec(),
			code: []byte{0x60, 0x00, 0x60, 0x00, 0xfd},
		},
		"returndatasize before byzantium": {
			spec: scarpia.SpuriousDragonSpec(),
			code: []byte{0x3d},
		},
		"delegatecall before homestead": {
			spec: scarpia.FrontierSpec(),
			code: []byte{0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x43, 0x60, 0xff, 0xf4},
		},
		"staticcall before byzantium": {
			spec: scarpia.SpuriousDragonSpec(),
			code: []byte{0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x00, 0x60, 0x43, 0x60, 0xff, 0xfa},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCode(t, test.spec, state.New(), test.code, 100_000, nil)
			if !errors.Is(err, scarpia.ErrInvalidInstruction) {
				t.Fatalf("unexpected error, want %v, got %v", scarpia.ErrInvalidInstruction, err)
			}
		})
	}
}

func TestInterpreter_EmptyCodeHaltsSuccessfully(t *testing.T) {
	result, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), nil, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.GasLeft != 100 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestInterpreter_ExecutionIsDeterministic(t *testing.T) {
	code := []byte{
		0x60, 0x2a, 0x60, 0x00, 0x55, // SSTORE 42 at key 0
		0x60, 0x07, 0x60, 0x03, 0x0a, // EXP 3^7
		0x60, 0x00, 0x52, // MSTORE
		0x60, 0x20, 0x60, 0x00, 0xf3, // RETURN
	}

	first, err1 := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100_000, nil)
	second, err2 := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100_000, nil)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("executions differ: %+v vs %+v", first, second)
	}
}

// recordingTracer collects the trace of a run for property checks.
type recordingTracer struct {
	records []scarpia.TraceRecord
}

func (t *recordingTracer) TraceInstruction(r scarpia.TraceRecord) {
	r.Stack = nil
	r.Memory = nil
	t.records = append(t.records, r)
}

func TestInterpreter_GasLevelsAreMonotoneWithinFrames(t *testing.T) {
	code := []byte{
		0x60, 0x01, 0x60, 0x00, 0x55, // SSTORE
		0x60, 0x20, 0x60, 0x00, 0x20, // SHA3 of first word
		0x50, // POP
		0x00, // STOP
	}

	tracer := &recordingTracer{}
	if _, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100_000, tracer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracer.records) == 0 {
		t.Fatalf("no trace records collected")
	}

	sawStorageDelta := false
	for i, record := range tracer.records {
		if record.GasCost < 0 {
			t.Errorf("negative gas cost in record %d: %+v", i, record)
		}
		if record.GasCost > record.GasBefore {
			t.Errorf("gas cost exceeds gas level in record %d: %+v", i, record)
		}
		if record.StorageDelta != nil {
			sawStorageDelta = true
			if want, got := byte(1), record.StorageDelta.Value[31]; want != got {
				t.Errorf("unexpected storage delta in record %d: %+v", i, record.StorageDelta)
			}
		}
	}
	if !sawStorageDelta {
		t.Errorf("the SSTORE was traced without its storage delta")
	}
}

func TestInterpreter_MemoryChargeMatchesFinalSize(t *testing.T) {
	// MSTORE at offset 100 grows the memory to 132 bytes = 5 words; all other
	// instructions have static costs.
	code := []byte{0x60, 0xaa, 0x60, 0x64, 0x52, 0x00}
	result, err := runCode(t, scarpia.ByzantiumSpec(), state.New(), code, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	staticCosts := scarpia.Gas(3 + 3 + 3)
	memoryCosts := scarpia.Gas(3*5 + (5*5)/512)
	if want, got := staticCosts+memoryCosts, 100-result.GasLeft; want != got {
		t.Errorf("unexpected gas usage, want %d, got %d", want, got)
	}
}
