// Package config defines the chain-spec constants a jamnode instance runs
// with, loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/jamdev/jamnode/safrole"
	"github.com/jamdev/jamnode/types"
)

// ChainSpec holds every constant named by the core state machine: core
// count, validator count, epoch/contest/rotation timing, extrinsic bundle
// limits, and the protocol version governing privileges encoding.
type ChainSpec struct {
	Version types.ProtocolVersion `yaml:"version"`

	NumCores      int `yaml:"num_cores"`
	NumValidators int `yaml:"num_validators"`

	EpochLength         uint32 `yaml:"epoch_length"`
	ContestDuration     uint32 `yaml:"contest_duration"`
	RotationPeriod      uint32 `yaml:"rotation_period"`
	TicketsPerValidator int    `yaml:"tickets_per_validator"`

	MaxTicketsPerExtrinsic int `yaml:"max_tickets_per_extrinsic"`
	MaxPreimages           int `yaml:"max_preimages"`
	MaxGuarantees          int `yaml:"max_guarantees"`
	MaxGuaranteeSignatures int `yaml:"max_guarantee_signatures"`
	MaxAssurances          int `yaml:"max_assurances"`
	MaxOffenders           int `yaml:"max_offenders"`

	MaxBlockGas           uint64 `yaml:"max_block_gas"`
	MaxRefineGas          uint64 `yaml:"max_refine_gas"`
	PreimageExpungePeriod uint32 `yaml:"preimage_expunge_period"`

	SlotDurationSeconds uint32 `yaml:"slot_duration_seconds"`
}

// Default returns the built-in chain spec this module's tests run against:
// 1023 validators over 341 cores, the partition §4.5 calls out explicitly
// (1023/341 = 3).
func Default() *ChainSpec {
	return &ChainSpec{
		Version:                types.V0_7_1,
		NumCores:               341,
		NumValidators:          1023,
		EpochLength:            600,
		ContestDuration:        500,
		RotationPeriod:         10,
		TicketsPerValidator:    2,
		MaxTicketsPerExtrinsic: 16,
		MaxPreimages:           16,
		MaxGuarantees:          341,
		MaxGuaranteeSignatures: 3,
		MaxAssurances:          1023,
		MaxOffenders:           1023,
		MaxBlockGas:            3_500_000_000,
		MaxRefineGas:           5_000_000_000,
		PreimageExpungePeriod:  19200,
		SlotDurationSeconds:    6,
	}
}

// Load reads and validates a ChainSpec from a YAML file at path.
func Load(path string) (*ChainSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cs := &ChainSpec{}
	if err := yaml.Unmarshal(data, cs); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return cs, nil
}

// Validate checks the spec's internal consistency. An invalid spec causes
// the CLI to exit with configuration-error status.
func (cs *ChainSpec) Validate() error {
	if cs.NumCores <= 0 {
		return fmt.Errorf("config: num_cores must be > 0")
	}
	if cs.NumValidators <= 0 {
		return fmt.Errorf("config: num_validators must be > 0")
	}
	if cs.EpochLength == 0 {
		return fmt.Errorf("config: epoch_length must be > 0")
	}
	if cs.ContestDuration > cs.EpochLength {
		return fmt.Errorf("config: contest_duration must not exceed epoch_length")
	}
	if cs.RotationPeriod == 0 {
		return fmt.Errorf("config: rotation_period must be > 0")
	}
	if cs.EpochLength%cs.RotationPeriod != 0 {
		return fmt.Errorf("config: epoch_length must be a multiple of rotation_period")
	}
	if cs.TicketsPerValidator <= 0 {
		return fmt.Errorf("config: tickets_per_validator must be > 0")
	}
	switch cs.Version {
	case types.V0_7_0, types.V0_7_1:
	default:
		return fmt.Errorf("config: unsupported protocol version %d", cs.Version)
	}
	return nil
}

// SafroleParams projects the spec onto the parameters safrole.Params needs.
func (cs *ChainSpec) SafroleParams() safrole.Params {
	return safrole.Params{
		EpochLen:               cs.EpochLength,
		ContestDuration:        cs.ContestDuration,
		ValCount:               cs.NumValidators,
		CoreCount:              cs.NumCores,
		RotationPeriod:         cs.RotationPeriod,
		TicketsPerValidator:    cs.TicketsPerValidator,
		MaxTicketsPerExtrinsic: cs.MaxTicketsPerExtrinsic,
	}
}

// ExtrinsicBounds projects the spec onto the decode-time bounds
// types.DecodeExtrinsic needs.
func (cs *ChainSpec) ExtrinsicBounds() types.ExtrinsicBounds {
	return types.ExtrinsicBounds{
		MaxTicketsPerExtrinsic: cs.MaxTicketsPerExtrinsic,
		MaxPreimages:           cs.MaxPreimages,
		MaxGuarantees:          cs.MaxGuarantees,
		MaxGuaranteeSignatures: cs.MaxGuaranteeSignatures,
		MaxAssurances:          cs.MaxAssurances,
		MaxDisputeEntries:      cs.MaxOffenders,
		ValidatorCount:         cs.NumValidators,
	}
}
