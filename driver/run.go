// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Fantom-foundation/Scarpia/interpreter/cfvm"
	"github.com/Fantom-foundation/Scarpia/scarpia"
	"github.com/Fantom-foundation/Scarpia/state"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run EVM byte code against a fresh in-memory state",
	ArgsUsage: "<code in hex>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "code-file",
			Usage: "file containing the code in hex, instead of the argument",
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "call input data in hex",
		},
		&cli.Uint64Flag{
			Name:  "gas",
			Usage: "gas budget of the invocation",
			Value: 10_000_000,
		},
		&cli.Uint64Flag{
			Name:  "value",
			Usage: "value of the invocation, reported by CALLVALUE; moved to the created account only with --create",
		},
		&cli.StringFlag{
			Name:  "fork",
			Usage: fmt.Sprintf("release specification to run under, one of %s", strings.Join(forkNames(), ", ")),
			Value: "byzantium",
		},
		&cli.BoolFlag{
			Name:  "create",
			Usage: "treat the code as initialization code of a contract creation",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "print every executed instruction",
		},
		&cli.StringFlag{
			Name:  "code-cache",
			Usage: "number of cached code analyses, SI prefixes allowed",
		},
	},
}

var forks = map[string]func() *scarpia.Spec{
	"frontier":  scarpia.FrontierSpec,
	"homestead": scarpia.HomesteadSpec,
	"tangerine": scarpia.TangerineWhistleSpec,
	"spurious":  scarpia.SpuriousDragonSpec,
	"byzantium": scarpia.ByzantiumSpec,
}

func forkNames() []string {
	names := maps.Keys(forks)
	sort.Strings(names)
	return names
}

func doRun(context *cli.Context) error {
	code, err := readCode(context)
	if err != nil {
		return err
	}

	makeSpec, found := forks[strings.ToLower(context.String("fork"))]
	if !found {
		return fmt.Errorf("unknown fork %q, supported are %s", context.String("fork"), strings.Join(forkNames(), ", "))
	}
	spec := makeSpec()

	var input []byte
	if data := context.String("input"); data != "" {
		if input, err = hex.DecodeString(strings.TrimPrefix(data, "0x")); err != nil {
			return fmt.Errorf("invalid input data: %w", err)
		}
	}

	config := cfvm.Config{}
	if size := context.String("code-cache"); size != "" {
		entries, err := unitconv.ParsePrefix(size, unitconv.AutoParse)
		if err != nil {
			return fmt.Errorf("invalid code cache size: %w", err)
		}
		config.CodeCacheCapacity = int(entries)
	}

	vm, err := cfvm.NewVM(config)
	if err != nil {
		return err
	}

	var (
		sender    = scarpia.Address{0x42}
		recipient = scarpia.Address{0x43}
	)

	world := state.New()
	world.CreateAccount(sender, scarpia.NewValue(1_000_000_000_000_000_000))
	codeHash := world.UpdateCode(code)
	world.UpdateCodeHash(recipient, codeHash, spec)

	params := scarpia.Parameters{
		TransactionParameters: scarpia.TransactionParameters{
			Origin: sender,
		},
		Spec:      spec,
		State:     world,
		Storage:   world.Storage(),
		Kind:      scarpia.Call,
		Gas:       scarpia.Gas(context.Uint64("gas")),
		Recipient: recipient,
		Sender:    sender,
		Input:     input,
		Value:     scarpia.NewValue(context.Uint64("value")),
		CodeHash:  &codeHash,
		Code:      code,
	}
	if context.Bool("create") {
		params.Kind = scarpia.Create
		params.Input = code
		params.Code = nil
	}
	if context.Bool("trace") {
		params.Tracer = scarpia.WriterTracer{Out: os.Stdout}
	}

	result, err := vm.Run(params)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	gasUsed := params.Gas - result.GasLeft
	fmt.Printf("success:   %t\n", result.Success)
	fmt.Printf("output:    0x%x\n", result.Output)
	fmt.Printf("gas used:  %s\n", unitconv.FormatPrefix(float64(gasUsed), unitconv.SI, 3))
	fmt.Printf("refund:    %d\n", result.GasRefund)
	if params.Kind == scarpia.Create {
		fmt.Printf("created:   %v\n", result.CreatedAddress)
	}
	for _, log := range result.Logs {
		fmt.Printf("log:       %v %v 0x%x\n", log.Address, log.Topics, log.Data)
	}
	for _, addr := range result.Destroyed {
		fmt.Printf("destroyed: %v\n", addr)
	}
	return nil
}

func readCode(context *cli.Context) ([]byte, error) {
	text := context.Args().First()
	if file := context.String("code-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return nil, fmt.Errorf("no code given, pass it as argument or via --code-file")
	}
	code, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid code: %w", err)
	}
	return code, nil
}
