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

import "github.com/Fantom-foundation/Scarpia/scarpia"

// Local aliases for the fault sentinels surfaced through the scarpia package.
// Faults are values, not panics; the orchestrator is the only place where a
// fault is translated into frame unwinding.
const (
	errOutOfGas              = scarpia.ErrOutOfGas
	errStackOverflow         = scarpia.ErrStackOverflow
	errStackUnderflow        = scarpia.ErrStackUnderflow
	errInvalidJump           = scarpia.ErrInvalidJump
	errInvalidInstruction    = scarpia.ErrInvalidInstruction
	errStaticViolation       = scarpia.ErrStaticViolation
	errReturnDataOutOfBounds = scarpia.ErrAccessViolation
	errPrecompileFailure     = scarpia.ErrPrecompileFailure
	errGasUintOverflow       = scarpia.ErrGasUintOverflow
)
