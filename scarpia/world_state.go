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

//go:generate mockgen -source world_state.go -destination world_state_mock.go -package scarpia

// StateStore is an interface to access and manipulate the account state of the
// block chain: balances, nonces, and code. All modifications are expected to be
// buffered by the implementation such that they can be snapshot and restored.
// Snapshots are strictly LIFO: a snapshot may only be restored if every
// snapshot taken after it has been restored or abandoned before.
type StateStore interface {
	AccountExists(Address) bool
	CreateAccount(Address, Value)

	GetBalance(Address) Value
	AddBalance(Address, Value, *Spec)
	SubBalance(Address, Value, *Spec)

	// Touch records a zero-value balance update on the given account. Under
	// EIP-158 rules a touched empty account is scheduled for deletion at the
	// end of the transaction.
	Touch(Address, *Spec)

	GetNonce(Address) uint64
	IncrementNonce(Address)

	GetCodeHash(Address) Hash
	GetCode(Hash) Code
	UpdateCode(Code) Hash
	UpdateCodeHash(Address, Hash, *Spec)

	// IsDeadAccount returns true if the account does not exist or is empty
	// per EIP-158: zero nonce, zero balance, and no code.
	IsDeadAccount(Address) bool
	DeleteAccount(Address)

	TakeSnapshot() Snapshot
	RestoreSnapshot(Snapshot)
}

// StorageStore is an interface to access and manipulate the persistent storage
// slots of contracts. Keys are pairs of account address and 256-bit index.
// Writing a zero word is stored as the empty slice by convention; readers
// treat missing and zero-valued slots as equivalent. Snapshots follow the same
// LIFO discipline as StateStore snapshots.
type StorageStore interface {
	Get(Address, Key) Word
	Set(Address, Key, Word)

	TakeSnapshot() Snapshot
	RestoreSnapshot(Snapshot)
}

// BlockHashOracle provides the hashes of recent blocks for the BLOCKHASH
// instruction. A lookup may fail, in which case the instruction produces a
// zero word.
type BlockHashOracle interface {
	BlockHash(block *BlockParameters, number uint64) (Hash, bool)
}

// Address represents the 160-bit (20 bytes) address of an account.
type Address [20]byte

// Key represents the 256-bit (32 bytes) key of a storage slot.
type Key [32]byte

// Word represents an arbitrary 256-bit (32 byte) word in the EVM.
type Word [32]byte

// Value represents an amount of chain currency, typically wei.
type Value [32]byte

// Hash represents the 256-bit (32 bytes) hash of a code, a block, a topic
// or similar sequence of cryptographic summary information.
type Hash [32]byte

// Code represents the byte-code of a contract.
type Code []byte

// Data represents the input or output of contract invocations.
type Data []byte

// Gas represents the type used to represent the Gas values.
type Gas int64

// Snapshot is an opaque token identifying a state of a store at a given time,
// produced by TakeSnapshot and consumed by RestoreSnapshot.
type Snapshot int

// Log is the type summarizing a log message emitted as a side effect of a
// contract execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Data
}
