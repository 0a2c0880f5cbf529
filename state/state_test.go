// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"bytes"
	"testing"

	"github.com/Fantom-foundation/Scarpia/scarpia"
)

var (
	addrA = scarpia.Address{0x0a}
	addrB = scarpia.Address{0x0b}
)

func TestInMemory_SnapshotRestoreUndoesAccountChanges(t *testing.T) {
	world := New()
	world.CreateAccount(addrA, scarpia.NewValue(100))

	snapshot := world.TakeSnapshot()

	world.AddBalance(addrA, scarpia.NewValue(5), nil)
	world.IncrementNonce(addrA)
	world.CreateAccount(addrB, scarpia.NewValue(7))
	hash := world.UpdateCode(scarpia.Code{1, 2, 3})
	world.UpdateCodeHash(addrA, hash, nil)

	world.RestoreSnapshot(snapshot)

	if want, got := scarpia.NewValue(100), world.GetBalance(addrA); want != got {
		t.Errorf("balance change survived the restore: %v", got)
	}
	if want, got := uint64(0), world.GetNonce(addrA); want != got {
		t.Errorf("nonce change survived the restore: %d", got)
	}
	if world.AccountExists(addrB) {
		t.Errorf("account creation survived the restore")
	}
	if got := world.GetCode(world.GetCodeHash(addrA)); len(got) != 0 {
		t.Errorf("code update survived the restore: %x", got)
	}
}

func TestInMemory_SnapshotsNestInLifoOrder(t *testing.T) {
	world := New()
	world.CreateAccount(addrA, scarpia.NewValue(1))

	outer := world.TakeSnapshot()
	world.AddBalance(addrA, scarpia.NewValue(1), nil)

	inner := world.TakeSnapshot()
	world.AddBalance(addrA, scarpia.NewValue(1), nil)

	world.RestoreSnapshot(inner)
	if want, got := scarpia.NewValue(2), world.GetBalance(addrA); want != got {
		t.Fatalf("unexpected balance after inner restore, want %v, got %v", want, got)
	}

	world.RestoreSnapshot(outer)
	if want, got := scarpia.NewValue(1), world.GetBalance(addrA); want != got {
		t.Fatalf("unexpected balance after outer restore, want %v, got %v", want, got)
	}
}

func TestInMemory_DeadAccountFollowsEip158Definition(t *testing.T) {
	world := New()

	if !world.IsDeadAccount(addrA) {
		t.Errorf("missing account is not dead")
	}

	world.CreateAccount(addrA, scarpia.Value{})
	if !world.IsDeadAccount(addrA) {
		t.Errorf("empty account is not dead")
	}

	world.AddBalance(addrA, scarpia.NewValue(1), nil)
	if world.IsDeadAccount(addrA) {
		t.Errorf("funded account is dead")
	}

	world.CreateAccount(addrB, scarpia.Value{})
	world.IncrementNonce(addrB)
	if world.IsDeadAccount(addrB) {
		t.Errorf("account with nonce is dead")
	}
}

func TestInMemory_CodeIsContentAddressed(t *testing.T) {
	world := New()
	code := scarpia.Code{0x60, 0x00}

	first := world.UpdateCode(code)
	second := world.UpdateCode(code)
	if first != second {
		t.Errorf("hashes of identical code differ")
	}
	if got := world.GetCode(first); !bytes.Equal(code, got) {
		t.Errorf("unexpected code, want %x, got %x", code, got)
	}
}

func TestInMemory_StorageTreatsZeroAndMissingAlike(t *testing.T) {
	world := New()
	storage := world.Storage()
	key := scarpia.Key{0x01}

	if got := storage.Get(addrA, key); got != (scarpia.Word{}) {
		t.Fatalf("unexpected value of missing slot: %v", got)
	}

	value := scarpia.Word{}
	value[31] = 9
	storage.Set(addrA, key, value)
	if got := storage.Get(addrA, key); got != value {
		t.Fatalf("unexpected value: %v", got)
	}

	storage.Set(addrA, key, scarpia.Word{})
	if got := storage.Get(addrA, key); got != (scarpia.Word{}) {
		t.Fatalf("unexpected value after zero write: %v", got)
	}
}

func TestInMemory_StorageSnapshotsAreIndependentFromStateSnapshots(t *testing.T) {
	world := New()
	storage := world.Storage()
	key := scarpia.Key{0x01}
	value := scarpia.Word{31: 1}

	stateSnapshot := world.TakeSnapshot()
	storageSnapshot := storage.TakeSnapshot()

	world.AddBalance(addrA, scarpia.NewValue(1), nil)
	storage.Set(addrA, key, value)

	storage.RestoreSnapshot(storageSnapshot)
	if got := storage.Get(addrA, key); got != (scarpia.Word{}) {
		t.Errorf("storage write survived the restore: %v", got)
	}
	if got := world.GetBalance(addrA); got != scarpia.NewValue(1) {
		t.Errorf("state was affected by the storage restore: %v", got)
	}

	world.RestoreSnapshot(stateSnapshot)
	if got := world.GetBalance(addrA); !got.IsZero() {
		t.Errorf("balance change survived the restore: %v", got)
	}
}

func TestInMemory_TouchedAccountsAreRecordedAndUnwound(t *testing.T) {
	world := New()

	snapshot := world.TakeSnapshot()
	world.Touch(addrA, nil)
	if got := world.TouchedAccounts(); len(got) != 1 || got[0] != addrA {
		t.Fatalf("unexpected touched set: %v", got)
	}

	world.RestoreSnapshot(snapshot)
	if got := world.TouchedAccounts(); len(got) != 0 {
		t.Errorf("touch survived the restore: %v", got)
	}
}
