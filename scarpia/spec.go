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

// Spec describes a release specification of the EVM: the set of enabled
// hard-fork features and the gas schedule in effect. Instances are immutable
// once constructed; interpreters query them but never modify them.
type Spec struct {
	Name string

	// Feature gates, named after the EIP introducing the behavior.
	EIP2   bool // Homestead: failing code deposit consumes the create frame
	EIP7   bool // Homestead: DELEGATECALL
	EIP150 bool // Tangerine Whistle: IO gas repricing and the 63/64 rule
	EIP155 bool // Spurious Dragon: replay protection (chain id)
	EIP158 bool // Spurious Dragon: dead account semantics and touch cleanup
	EIP160 bool // Spurious Dragon: EXP byte cost increase
	EIP170 bool // Spurious Dragon: deployed code size cap
	EIP140 bool // Byzantium: REVERT
	EIP196 bool // Byzantium: bn256 add/mul precompiles
	EIP197 bool // Byzantium: bn256 pairing precompile
	EIP198 bool // Byzantium: modexp precompile
	EIP211 bool // Byzantium: RETURNDATASIZE / RETURNDATACOPY
	EIP214 bool // Byzantium: STATICCALL

	Gas GasSchedule
}

func (s *Spec) String() string {
	return s.Name
}

// GasSchedule lists the gas cost constants of a release specification. Values
// that were repriced by a hard fork are stored resolved, the preset
// constructors below fill in the fork-appropriate amounts.
type GasSchedule struct {
	Base    Gas // quick step, e.g. ADDRESS, CALLER
	VeryLow Gas // fastest arithmetic, e.g. ADD, LT, PUSH
	Low     Gas // e.g. MUL, DIV
	Mid     Gas // e.g. ADDMOD, JUMP
	High    Gas // JUMPI

	Balance     Gas // BALANCE, repriced by EIP-150
	ExtCodeSize Gas // EXTCODESIZE, repriced by EIP-150
	ExtCode     Gas // EXTCODECOPY base, repriced by EIP-150
	SLoad       Gas // SLOAD, repriced by EIP-150

	SSet   Gas // SSTORE writing a non-zero value to a zero slot
	SReset Gas // SSTORE any other write
	SClear Gas // refund for clearing a non-zero slot

	Call        Gas // CALL family base, repriced by EIP-150
	CallValue   Gas // surcharge for a non-zero value transfer
	CallStipend Gas // gas granted to the callee of a value transfer
	NewAccount  Gas // surcharge for calls creating a new account

	SelfDestruct       Gas // SELFDESTRUCT base, introduced by EIP-150
	SelfDestructRefund Gas // refund for the first destruction of an account

	Sha3     Gas // SHA3 base
	Sha3Word Gas // SHA3 per input word
	Memory   Gas // linear memory expansion cost per word
	Copy     Gas // *COPY cost per word

	CodeDeposit Gas // per byte of deployed contract code
	JumpDest    Gas // JUMPDEST
	BlockHash   Gas // BLOCKHASH

	Log      Gas // LOGn base
	LogTopic Gas // per topic
	LogData  Gas // per byte of log payload

	Exp     Gas // EXP base
	ExpByte Gas // EXP per exponent byte, repriced by EIP-160
	Create  Gas // CREATE base

	MaxCodeSize int // deployed code size cap, enforced when EIP170 is set
}

// frontierSchedule is the original gas schedule of the Frontier release.
// The fork presets start from it and reprice individual entries.
var frontierSchedule = GasSchedule{
	Base:               2,
	VeryLow:            3,
	Low:                5,
	Mid:                8,
	High:               10,
	Balance:            20,
	ExtCodeSize:        20,
	ExtCode:            20,
	SLoad:              50,
	SSet:               20000,
	SReset:             5000,
	SClear:             15000,
	Call:               40,
	CallValue:          9000,
	CallStipend:        2300,
	NewAccount:         25000,
	SelfDestruct:       0,
	SelfDestructRefund: 24000,
	Sha3:               30,
	Sha3Word:           6,
	Memory:             3,
	Copy:               3,
	CodeDeposit:        200,
	JumpDest:           1,
	BlockHash:          20,
	Log:                375,
	LogTopic:           375,
	LogData:            8,
	Exp:                10,
	ExpByte:            10,
	Create:             32000,
	MaxCodeSize:        24576,
}

// FrontierSpec returns the specification of the Frontier release.
func FrontierSpec() *Spec {
	return &Spec{
		Name: "Frontier",
		Gas:  frontierSchedule,
	}
}

// HomesteadSpec returns the specification of the Homestead release.
func HomesteadSpec() *Spec {
	spec := FrontierSpec()
	spec.Name = "Homestead"
	spec.EIP2 = true
	spec.EIP7 = true
	return spec
}

// TangerineWhistleSpec returns the specification of the Tangerine Whistle
// release, activating the EIP-150 IO repricing and the 63/64 rule.
func TangerineWhistleSpec() *Spec {
	spec := HomesteadSpec()
	spec.Name = "TangerineWhistle"
	spec.EIP150 = true
	spec.Gas.Balance = 400
	spec.Gas.ExtCodeSize = 700
	spec.Gas.ExtCode = 700
	spec.Gas.SLoad = 200
	spec.Gas.Call = 700
	spec.Gas.SelfDestruct = 5000
	return spec
}

// SpuriousDragonSpec returns the specification of the Spurious Dragon
// release, activating the EIP-158 state clearing rules.
func SpuriousDragonSpec() *Spec {
	spec := TangerineWhistleSpec()
	spec.Name = "SpuriousDragon"
	spec.EIP155 = true
	spec.EIP158 = true
	spec.EIP160 = true
	spec.EIP170 = true
	spec.Gas.ExpByte = 50
	return spec
}

// ByzantiumSpec returns the specification of the Byzantium release.
func ByzantiumSpec() *Spec {
	spec := SpuriousDragonSpec()
	spec.Name = "Byzantium"
	spec.EIP140 = true
	spec.EIP196 = true
	spec.EIP197 = true
	spec.EIP198 = true
	spec.EIP211 = true
	spec.EIP214 = true
	return spec
}

// AllSpecs returns the supported release specifications in activation order.
func AllSpecs() []*Spec {
	return []*Spec{
		FrontierSpec(),
		HomesteadSpec(),
		TangerineWhistleSpec(),
		SpuriousDragonSpec(),
		ByzantiumSpec(),
	}
}
