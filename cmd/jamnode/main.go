// Command jamnode is the CLI surface named in §6: import-block, author-block,
// show-state-root, export-state, serve, and pvm-exec, each returning a
// tagged exit code rather than a human-only error (0 success, 1 validation
// failure, 2 I/O error, 3 configuration error).
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/jamdev/jamnode/codec"
	"github.com/jamdev/jamnode/config"
	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/importer"
	"github.com/jamdev/jamnode/pvm"
	"github.com/jamdev/jamnode/state"
	"github.com/jamdev/jamnode/types"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. It takes CLI
// arguments without the program name so it can be tested in isolation.
func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: jamnode <import-block|author-block|show-state-root|export-state|serve|pvm-exec> [flags]")
		return 3
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import-block":
		return runImportBlock(rest)
	case "author-block":
		return runAuthorBlock(rest)
	case "show-state-root":
		return runShowStateRoot(rest)
	case "export-state":
		return runExportState(rest)
	case "serve":
		return runServe(rest)
	case "pvm-exec":
		return runPVMExec(rest)
	default:
		fmt.Fprintf(os.Stderr, "jamnode: unknown command %q\n", cmd)
		return 3
	}
}

func loadSpec(configPath string) (*config.ChainSpec, int) {
	if configPath == "" {
		return config.Default(), 0
	}
	cs, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
		return nil, 3
	}
	return cs, 0
}

// runImportBlock implements `jamnode import-block <file>`: decode the block
// at file, import it against a freshly initialized genesis state, and
// report the resulting state root.
func runImportBlock(args []string) int {
	fs := newFlagSet("import-block")
	configPath := fs.String("config", "", "chain-spec YAML path (defaults to the built-in spec)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jamnode import-block [--config path] <file>")
		return 3
	}

	cs, code := loadSpec(*configPath)
	if code != 0 {
		return code
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
		return 2
	}

	block, err := types.DecodeBlock(codec.NewDecoder(data), int(cs.EpochLength), cs.NumValidators, cs.MaxOffenders, cs.ExtrinsicBounds())
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: decode block: %v\n", err)
		return 1
	}

	bi := &importer.BlockImporter{
		Svc:     state.NewStateService(state.New(cs.NumCores, int(cs.EpochLength))),
		Params:  cs.SafroleParams(),
		Version: cs.Version,
		Suite:   defaultSuite(),
	}

	result, err := bi.Import(block)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: import rejected: %v\n", err)
		return 1
	}

	fmt.Printf("imported block at slot %d, state_root=%s\n", block.Header.Timeslot, result.PostStateRoot.Hex())
	return 0
}

// runAuthorBlock implements `jamnode author-block`: block authoring needs
// real signing key material and a PVM/refine pipeline, both out of this
// module's scope (§6), so this command reports that explicitly rather than
// fabricating a block.
func runAuthorBlock(args []string) int {
	fmt.Fprintln(os.Stderr, "jamnode: author-block requires a signing key and PVM capability not provided by this build")
	return 3
}

// runShowStateRoot implements `jamnode show-state-root`: print the state
// root of a freshly initialized genesis state for the given chain spec.
func runShowStateRoot(args []string) int {
	fs := newFlagSet("show-state-root")
	configPath := fs.String("config", "", "chain-spec YAML path (defaults to the built-in spec)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cs, code := loadSpec(*configPath)
	if code != 0 {
		return code
	}

	st := state.New(cs.NumCores, int(cs.EpochLength))
	root, err := st.StateRoot(cs.Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
		return 1
	}
	fmt.Println(root.Hex())
	return 0
}

// runExportState implements `jamnode export-state`: print the genesis
// state's root together with the chain spec's core and validator counts, one
// key=value line each. The per-component encodings are not written.
func runExportState(args []string) int {
	fs := newFlagSet("export-state")
	configPath := fs.String("config", "", "chain-spec YAML path (defaults to the built-in spec)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cs, code := loadSpec(*configPath)
	if code != 0 {
		return code
	}

	st := state.New(cs.NumCores, int(cs.EpochLength))
	root, err := st.StateRoot(cs.Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
		return 1
	}
	fmt.Printf("state_root=%s\n", root.Hex())
	fmt.Printf("num_cores=%d\n", cs.NumCores)
	fmt.Printf("num_validators=%d\n", cs.NumValidators)
	return 0
}

// runPVMExec implements `jamnode pvm-exec <hex-args>`: drives the PVM
// capability boundary's fake refine entrypoint directly, for exercising the
// interface without a full accumulate/refine pipeline.
func runPVMExec(args []string) int {
	fs := newFlagSet("pvm-exec")
	gas := fs.Uint64("gas", 0, "gas budget passed to the refine invocation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jamnode pvm-exec [--gas n] <hex-encoded-args>")
		return 3
	}

	input, err := hex.DecodeString(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: decode args: %v\n", err)
		return 1
	}

	fake := pvm.NewFake()
	result := fake.ExecuteRefine(nil, *gas, input, nil)
	fmt.Printf("kind=%d gas_used=%d output=%s\n", result.Kind, result.GasUsed, hex.EncodeToString(result.Output))
	return 0
}

func defaultSuite() cryptocap.Suite {
	return cryptocap.Suite{
		Hasher:          cryptocap.Blake2bHasher{},
		Ed25519Verifier: cryptocap.Ed25519{},
		Bandersnatch:    cryptocap.BandersnatchVRF{},
		BLSVerifier:     cryptocap.BLS{},
	}
}
