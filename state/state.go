// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides an in-memory reference implementation of the
// scarpia.StateStore and scarpia.StorageStore contracts, used by the driver
// and by tests. All mutations are journaled, snapshots are positions in the
// journal, and restores unwind it. Snapshots must be restored in strict LIFO
// order.
package state

import (
	"bytes"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/ethereum/go-ethereum/crypto"
)

var emptyCodeHash = scarpia.Hash(crypto.Keccak256(nil))

type account struct {
	balance  scarpia.Value
	nonce    uint64
	codeHash scarpia.Hash
}

type slotKey struct {
	addr scarpia.Address
	key  scarpia.Key
}

// InMemory is a journal-backed in-memory world state. The zero value is not
// usable, use New.
type InMemory struct {
	accounts map[scarpia.Address]*account
	codes    map[scarpia.Hash]scarpia.Code
	storage  map[slotKey][]byte
	touched  map[scarpia.Address]bool

	stateJournal   []func()
	storageJournal []func()
}

// New creates an empty in-memory state.
func New() *InMemory {
	return &InMemory{
		accounts: map[scarpia.Address]*account{},
		codes:    map[scarpia.Hash]scarpia.Code{},
		storage:  map[slotKey][]byte{},
		touched:  map[scarpia.Address]bool{},
	}
}

// ---------------------------------------------------------------------------
// StateStore
// ---------------------------------------------------------------------------

func (s *InMemory) AccountExists(addr scarpia.Address) bool {
	return s.accounts[addr] != nil
}

func (s *InMemory) CreateAccount(addr scarpia.Address, balance scarpia.Value) {
	prev := s.accounts[addr]
	s.stateJournal = append(s.stateJournal, func() { s.setAccount(addr, prev) })
	s.accounts[addr] = &account{balance: balance, codeHash: emptyCodeHash}
}

func (s *InMemory) GetBalance(addr scarpia.Address) scarpia.Value {
	if cur := s.accounts[addr]; cur != nil {
		return cur.balance
	}
	return scarpia.Value{}
}

func (s *InMemory) AddBalance(addr scarpia.Address, delta scarpia.Value, spec *scarpia.Spec) {
	cur := s.getOrCreate(addr)
	s.markTouched(addr)
	prev := cur.balance
	s.stateJournal = append(s.stateJournal, func() { cur.balance = prev })
	cur.balance = scarpia.Add(cur.balance, delta)
}

func (s *InMemory) SubBalance(addr scarpia.Address, delta scarpia.Value, spec *scarpia.Spec) {
	cur := s.getOrCreate(addr)
	s.markTouched(addr)
	prev := cur.balance
	s.stateJournal = append(s.stateJournal, func() { cur.balance = prev })
	cur.balance = scarpia.Sub(cur.balance, delta)
}

func (s *InMemory) Touch(addr scarpia.Address, spec *scarpia.Spec) {
	s.markTouched(addr)
}

func (s *InMemory) GetNonce(addr scarpia.Address) uint64 {
	if cur := s.accounts[addr]; cur != nil {
		return cur.nonce
	}
	return 0
}

func (s *InMemory) IncrementNonce(addr scarpia.Address) {
	cur := s.getOrCreate(addr)
	s.stateJournal = append(s.stateJournal, func() { cur.nonce-- })
	cur.nonce++
}

func (s *InMemory) GetCodeHash(addr scarpia.Address) scarpia.Hash {
	if cur := s.accounts[addr]; cur != nil {
		return cur.codeHash
	}
	return scarpia.Hash{}
}

func (s *InMemory) GetCode(hash scarpia.Hash) scarpia.Code {
	return s.codes[hash]
}

func (s *InMemory) UpdateCode(code scarpia.Code) scarpia.Hash {
	hash := scarpia.Hash(crypto.Keccak256(code))
	if _, found := s.codes[hash]; !found {
		// The code map is content addressed and monotone; stale entries are
		// unreachable after a restore and need no journaling.
		s.codes[hash] = bytes.Clone(code)
	}
	return hash
}

func (s *InMemory) UpdateCodeHash(addr scarpia.Address, hash scarpia.Hash, spec *scarpia.Spec) {
	cur := s.getOrCreate(addr)
	prev := cur.codeHash
	s.stateJournal = append(s.stateJournal, func() { cur.codeHash = prev })
	cur.codeHash = hash
}

func (s *InMemory) IsDeadAccount(addr scarpia.Address) bool {
	cur := s.accounts[addr]
	if cur == nil {
		return true
	}
	return cur.nonce == 0 && cur.balance.IsZero() &&
		(cur.codeHash == emptyCodeHash || cur.codeHash == scarpia.Hash{})
}

func (s *InMemory) DeleteAccount(addr scarpia.Address) {
	prev := s.accounts[addr]
	s.stateJournal = append(s.stateJournal, func() { s.setAccount(addr, prev) })
	delete(s.accounts, addr)
}

func (s *InMemory) TakeSnapshot() scarpia.Snapshot {
	return scarpia.Snapshot(len(s.stateJournal))
}

func (s *InMemory) RestoreSnapshot(snapshot scarpia.Snapshot) {
	for len(s.stateJournal) > int(snapshot) {
		last := len(s.stateJournal) - 1
		s.stateJournal[last]()
		s.stateJournal = s.stateJournal[:last]
	}
}

// TouchedAccounts returns the addresses recorded as touched. Processors use
// this at transaction end to apply the EIP-158 cleanup of empty accounts.
func (s *InMemory) TouchedAccounts() []scarpia.Address {
	res := make([]scarpia.Address, 0, len(s.touched))
	for addr, touched := range s.touched {
		if touched {
			res = append(res, addr)
		}
	}
	return res
}

func (s *InMemory) markTouched(addr scarpia.Address) {
	if s.touched[addr] {
		return
	}
	s.stateJournal = append(s.stateJournal, func() { delete(s.touched, addr) })
	s.touched[addr] = true
}

func (s *InMemory) getOrCreate(addr scarpia.Address) *account {
	if cur := s.accounts[addr]; cur != nil {
		return cur
	}
	cur := &account{codeHash: emptyCodeHash}
	s.stateJournal = append(s.stateJournal, func() { s.setAccount(addr, nil) })
	s.accounts[addr] = cur
	return cur
}

func (s *InMemory) setAccount(addr scarpia.Address, cur *account) {
	if cur == nil {
		delete(s.accounts, addr)
	} else {
		s.accounts[addr] = cur
	}
}

// ---------------------------------------------------------------------------
// StorageStore
// ---------------------------------------------------------------------------

func (s *InMemory) Get(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	var res scarpia.Word
	copy(res[32-len(s.storage[slotKey{addr, key}]):], s.storage[slotKey{addr, key}])
	return res
}

func (s *InMemory) Set(addr scarpia.Address, key scarpia.Key, value scarpia.Word) {
	slot := slotKey{addr, key}
	prev, found := s.storage[slot]
	s.storageJournal = append(s.storageJournal, func() {
		if found {
			s.storage[slot] = prev
		} else {
			delete(s.storage, slot)
		}
	})
	if value == (scarpia.Word{}) {
		// zero values are stored as the empty slice
		s.storage[slot] = nil
		return
	}
	s.storage[slot] = trimLeadingZeros(value[:])
}

// Storage snapshots and restores are provided through a separate view to keep
// the two journal name spaces apart; see Storage().

// Storage returns the StorageStore view of this state.
func (s *InMemory) Storage() scarpia.StorageStore {
	return storageView{s}
}

// storageView implements scarpia.StorageStore with an independent journal.
type storageView struct {
	state *InMemory
}

func (v storageView) Get(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	return v.state.Get(addr, key)
}

func (v storageView) Set(addr scarpia.Address, key scarpia.Key, value scarpia.Word) {
	v.state.Set(addr, key, value)
}

func (v storageView) TakeSnapshot() scarpia.Snapshot {
	return scarpia.Snapshot(len(v.state.storageJournal))
}

func (v storageView) RestoreSnapshot(snapshot scarpia.Snapshot) {
	s := v.state
	for len(s.storageJournal) > int(snapshot) {
		last := len(s.storageJournal) - 1
		s.storageJournal[last]()
		s.storageJournal = s.storageJournal[:last]
	}
}

func trimLeadingZeros(data []byte) []byte {
	for i, b := range data {
		if b != 0 {
			return bytes.Clone(data[i:])
		}
	}
	return nil
}
