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

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package scarpia

// Interpreter is a component capable of executing EVM byte-code, including the
// recursive contract calls and contract creations issued by it. To execute a
// transaction-level invocation, client code builds a Parameters instance
// describing the root frame and calls Run.
type Interpreter interface {
	// Run executes the invocation described by the parameters and returns the
	// processing result. The resulting error is nil whenever the code was
	// correctly executed, even if the execution reverted. A non-nil error is
	// either one of the fault sentinels of this package, reporting an
	// exceptional halt of the root frame (all gas consumed, state restored),
	// or an internal error, in which case the result is undefined.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the list of input parameters required for executing
// the root frame of a transaction.
type Parameters struct {
	BlockParameters
	TransactionParameters
	Spec      *Spec
	State     StateStore
	Storage   StorageStore
	BlockHash BlockHashOracle
	Tracer    Tracer // optional, nil disables tracing
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Value
	CodeHash  *Hash
	Code      Code
}

// BlockParameters contains information about the current block.
type BlockParameters struct {
	Number     int64
	Timestamp  int64
	GasLimit   Gas
	Coinbase   Address
	Difficulty Value
}

// TransactionParameters contains information about the current transaction.
type TransactionParameters struct {
	Origin   Address
	GasPrice Value
}

// Result summarizes the result of an EVM code computation, including the
// transaction substate accumulated by all non-reverted frames.
type Result struct {
	Success        bool // false if the execution ended in a revert, true otherwise
	Output         Data
	GasLeft        Gas
	GasRefund      Gas
	Logs           []Log
	Destroyed      []Address
	CreatedAddress Address // only meaningful for Create invocations
}

// CallKind is an enum enabling the differentiation of the different types
// of recursive contract calls supported in the EVM.
type CallKind int

const (
	Call CallKind = iota
	CallCode
	DelegateCall
	StaticCall
	Create
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "call"
	case CallCode:
		return "call_code"
	case DelegateCall:
		return "delegate_call"
	case StaticCall:
		return "static_call"
	case Create:
		return "create"
	default:
		return "unknown"
	}
}

// Precompile is the contract of a single precompiled contract implementation.
// The caller charges BaseGas plus DataGas before invoking Run; Run itself is
// thus free to assume that gas accounting already happened.
type Precompile interface {
	// BaseGas is the input-independent part of the execution cost.
	BaseGas() Gas
	// DataGas is the input-dependent part of the execution cost.
	DataGas(input []byte) Gas
	// Run executes the contract. A false result reports a handler failure,
	// which yields a zero result word to the caller without reverting state.
	Run(input []byte) ([]byte, bool)
}
