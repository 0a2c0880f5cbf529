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
	"sync"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"golang.org/x/crypto/sha3"
)

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

// Keccak256 computes the keccak-256 hash of the given data using a pool of
// reusable hasher instances.
func Keccak256(data []byte) scarpia.Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res scarpia.Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

var emptyCodeHash = Keccak256(nil)
