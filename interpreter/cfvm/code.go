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
	"github.com/Fantom-foundation/Scarpia/scarpia"
	lru "github.com/hashicorp/golang-lru/v2"
)

// codeInfo is the analysis result for a contract code: the raw byte code plus
// a bit set marking the byte offsets that are valid jump destinations. A byte
// is a valid destination iff it holds a JUMPDEST instruction that is not part
// of the immediate data of a preceding PUSH. Instances are immutable after
// construction and may be shared between frames.
type codeInfo struct {
	code      []byte
	jumpDests []uint64
}

// analyzeCode scans the given code and computes its jump destination set.
func analyzeCode(code []byte) *codeInfo {
	dests := make([]uint64, (len(code)+63)/64)
	for i := 0; i < len(code); {
		op := OpCode(code[i])
		if op == JUMPDEST {
			dests[i/64] |= 1 << (i % 64)
		}
		if op.isPush() {
			i += op.pushSize()
		}
		i++
	}
	return &codeInfo{code: code, jumpDests: dests}
}

func (c *codeInfo) length() int {
	return len(c.code)
}

// isValidJumpTarget returns true iff dest is within the code and marked as a
// jump destination by the analysis.
func (c *codeInfo) isValidJumpTarget(dest uint64) bool {
	if dest >= uint64(len(c.code)) {
		return false
	}
	return c.jumpDests[dest/64]&(1<<(dest%64)) != 0
}

// defaultCodeCacheCapacity is the number of code analysis results retained by
// a code cache if no explicit capacity is configured.
const defaultCodeCacheCapacity = 4096

// codeCache is an LRU governed cache of code analysis results keyed by code
// hash. Codes without a known hash, in particular initialization codes, are
// analyzed on demand without being cached. Entry construction is idempotent,
// so racing constructions of the same entry yield value-equal results.
type codeCache struct {
	cache *lru.Cache[scarpia.Hash, *codeInfo]
}

// newCodeCache creates a code cache retaining up to capacity entries. A zero
// capacity selects the default, a negative capacity disables caching.
func newCodeCache(capacity int) (*codeCache, error) {
	if capacity == 0 {
		capacity = defaultCodeCacheCapacity
	}
	if capacity < 0 {
		return &codeCache{}, nil
	}
	cache, err := lru.New[scarpia.Hash, *codeInfo](capacity)
	if err != nil {
		return nil, err
	}
	return &codeCache{cache: cache}, nil
}

// get fetches the analysis result for the given code, computing and caching
// it as needed. The hash may be nil, in which case the result is not cached.
func (c *codeCache) get(codeHash *scarpia.Hash, code []byte) *codeInfo {
	if c.cache == nil || codeHash == nil {
		return analyzeCode(code)
	}
	if res, exists := c.cache.Get(*codeHash); exists {
		return res
	}
	res := analyzeCode(code)
	c.cache.Add(*codeHash, res)
	return res
}
