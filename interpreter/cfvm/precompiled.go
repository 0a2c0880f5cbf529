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
	"crypto/sha256"
	"math"
	"math/big"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	geth "github.com/ethereum/go-ethereum/core/vm"
	"golang.org/x/crypto/ripemd160"
)

// precompileAddress returns the address of the precompiled contract with the
// given index.
func precompileAddress(index byte) scarpia.Address {
	var addr scarpia.Address
	addr[19] = index
	return addr
}

// newPrecompiles builds the precompiled contract dispatch table for the given
// release specification. The Byzantium contracts are taken from the geth
// implementation; their pricing has no base component.
func newPrecompiles(spec *scarpia.Spec) map[scarpia.Address]scarpia.Precompile {
	contracts := map[scarpia.Address]scarpia.Precompile{
		precompileAddress(1): &ecrecover{},
		precompileAddress(2): &sha256hash{},
		precompileAddress(3): &ripemd160hash{},
		precompileAddress(4): &dataCopy{},
	}
	if spec.EIP198 {
		contracts[precompileAddress(5)] = wrapGethContract(5)
	}
	if spec.EIP196 {
		contracts[precompileAddress(6)] = wrapGethContract(6)
		contracts[precompileAddress(7)] = wrapGethContract(7)
	}
	if spec.EIP197 {
		contracts[precompileAddress(8)] = wrapGethContract(8)
	}
	return contracts
}

// wordCost is a helper pricing per-word input costs.
func wordCost(input []byte, perWord scarpia.Gas) scarpia.Gas {
	return perWord * scarpia.Gas(scarpia.SizeInWords(uint64(len(input))))
}

// ecrecover is the ECDSA public key recovery contract at address 0x1.
type ecrecover struct{}

func (e *ecrecover) BaseGas() scarpia.Gas            { return 3000 }
func (e *ecrecover) DataGas(input []byte) scarpia.Gas { return 0 }

func (e *ecrecover) Run(input []byte) ([]byte, bool) {
	const inputLength = 128
	input = getDataSlice(input, 0, inputLength)

	// v is a 32-byte big-endian word of value 27 or 28
	v := input[63] - 27
	if !allZero(input[32:63]) || (v != 0 && v != 1) {
		return nil, true
	}
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])
	if !crypto.ValidateSignatureValues(v, r, s, false) {
		return nil, true
	}

	// signature format is r || s || v
	sig := make([]byte, 65)
	copy(sig[:64], input[64:128])
	sig[64] = v

	pubKey, err := crypto.Ecrecover(input[:32], sig)
	if err != nil {
		return nil, true
	}
	return common.LeftPadBytes(crypto.Keccak256(pubKey[1:])[12:], 32), true
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// sha256hash is the SHA-256 contract at address 0x2.
type sha256hash struct{}

func (h *sha256hash) BaseGas() scarpia.Gas             { return 60 }
func (h *sha256hash) DataGas(input []byte) scarpia.Gas { return wordCost(input, 12) }

func (h *sha256hash) Run(input []byte) ([]byte, bool) {
	sum := sha256.Sum256(input)
	return sum[:], true
}

// ripemd160hash is the RIPEMD-160 contract at address 0x3.
type ripemd160hash struct{}

func (h *ripemd160hash) BaseGas() scarpia.Gas             { return 600 }
func (h *ripemd160hash) DataGas(input []byte) scarpia.Gas { return wordCost(input, 120) }

func (h *ripemd160hash) Run(input []byte) ([]byte, bool) {
	hasher := ripemd160.New()
	hasher.Write(input)
	return common.LeftPadBytes(hasher.Sum(nil), 32), true
}

// dataCopy is the identity contract at address 0x4.
type dataCopy struct{}

func (d *dataCopy) BaseGas() scarpia.Gas             { return 15 }
func (d *dataCopy) DataGas(input []byte) scarpia.Gas { return wordCost(input, 3) }

func (d *dataCopy) Run(input []byte) ([]byte, bool) {
	res := make([]byte, len(input))
	copy(res, input)
	return res, true
}

// gethPrecompile adapts a geth precompiled contract to the local interface.
// The combined geth pricing is reported as data cost.
type gethPrecompile struct {
	contract geth.PrecompiledContract
}

func wrapGethContract(index byte) scarpia.Precompile {
	addr := common.BytesToAddress([]byte{index})
	return &gethPrecompile{contract: geth.PrecompiledContractsByzantium[addr]}
}

func (p *gethPrecompile) BaseGas() scarpia.Gas { return 0 }

func (p *gethPrecompile) DataGas(input []byte) scarpia.Gas {
	cost := p.contract.RequiredGas(input)
	if cost > math.MaxInt64 {
		return math.MaxInt64
	}
	return scarpia.Gas(cost)
}

func (p *gethPrecompile) Run(input []byte) ([]byte, bool) {
	output, err := p.contract.Run(input)
	return output, err == nil
}
