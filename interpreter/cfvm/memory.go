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
	"math"

	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/holiman/uint256"
)

// Memory is the byte-addressable, zero-initialized memory of a single frame.
// It grows lazily in 32-byte word increments; each size transition charges
// the quadratic expansion fee exactly once.
type Memory struct {
	store             []byte
	currentMemoryCost scarpia.Gas
}

func NewMemory() *Memory {
	return &Memory{}
}

func toValidMemorySize(size uint64) uint64 {
	fullWordsSize := scarpia.SizeInWords(size) * 32
	if size != 0 && fullWordsSize < size {
		return math.MaxUint64
	}
	return fullWordsSize
}

// maxMemoryExpansionSize is the largest memory size for which the squared
// word count of the expansion cost still fits uint64 arithmetic; larger
// sizes are priced at the maximum gas value.
const maxMemoryExpansionSize = 0x1FFFFFFFE0

// expansionCosts computes the gas fee for growing the memory to the given
// size, based on the total cost function 3*w + w*w/512 over the size in
// words w.
func (m *Memory) expansionCosts(size uint64) scarpia.Gas {
	if m.length() >= size {
		return 0
	}
	size = toValidMemorySize(size)

	if size > maxMemoryExpansionSize {
		return scarpia.Gas(math.MaxInt64)
	}

	words := scarpia.SizeInWords(size)
	newCosts := scarpia.Gas((words*words)/512 + 3*words)
	return newCosts - m.currentMemoryCost
}

// expandMemory grows the memory to cover [offset, offset+size), charging the
// expansion fee to the given context. A size of zero never grows the memory.
// An overflowing offset+size is reported as a gas overflow error.
func (m *Memory) expandMemory(offset, size uint64, c *context) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset { // overflow
		return errGasUintOverflow
	}
	if m.length() < needed {
		fee := m.expansionCosts(needed)
		if err := c.useGas(fee); err != nil {
			return err
		}
		m.expandMemoryWithoutCharging(needed)
	}
	return nil
}

// expandMemoryWithoutCharging expands the memory without charging gas.
func (m *Memory) expandMemoryWithoutCharging(needed uint64) {
	needed = toValidMemorySize(needed)
	size := m.length()
	if size < needed {
		m.currentMemoryCost += m.expansionCosts(needed)
		m.store = append(m.store, make([]byte, needed-size)...)
	}
}

func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// setByte writes a single byte, implicitly expanding the memory.
func (m *Memory) setByte(offset uint64, value byte, c *context) error {
	if err := m.expandMemory(offset, 1, c); err != nil {
		return err
	}
	m.store[offset] = value
	return nil
}

// setWord writes a 32-byte big-endian word, implicitly expanding the memory.
func (m *Memory) setWord(offset uint64, value *uint256.Int, c *context) error {
	if err := m.expandMemory(offset, 32, c); err != nil {
		return err
	}
	data := value.Bytes32()
	copy(m.store[offset:offset+32], data[:])
	return nil
}

// set copies the given bytes into the memory, implicitly expanding it.
func (m *Memory) set(offset uint64, value []byte, c *context) error {
	if err := m.expandMemory(offset, uint64(len(value)), c); err != nil {
		return err
	}
	copy(m.store[offset:offset+uint64(len(value))], value)
	return nil
}

// getWord reads the 32-byte word at the given offset into trg, implicitly
// expanding the memory.
func (m *Memory) getWord(offset uint64, trg *uint256.Int, c *context) error {
	if err := m.expandMemory(offset, 32, c); err != nil {
		return err
	}
	trg.SetBytes32(m.store[offset : offset+32])
	return nil
}

// getSlice obtains a slice of size bytes from the memory at the given offset,
// implicitly expanding the memory. The returned slice is backed by the
// memory's internal store; it is invalidated by any subsequent operation that
// may change the memory size.
func (m *Memory) getSlice(offset, size uint64, c *context) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if err := m.expandMemory(offset, size, c); err != nil {
		return nil, err
	}
	return m.store[offset : offset+size], nil
}

// copyData copies the memory content starting at the given offset into trg,
// zero-padding where the memory ends. The memory is not expanded.
func (m *Memory) copyData(offset uint64, trg []byte) {
	if m.length() < offset {
		clear(trg)
		return
	}
	covered := copy(trg, m.store[offset:])
	clear(trg[covered:])
}
