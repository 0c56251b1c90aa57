package experiment

import (
	"crypto/md5"
	"math/big"

	"github.com/xavierau/chatbot-showeasy/internal/config"
)

type Variant string

const (
	VariantControl Variant = "control"
	VariantA       Variant = "variant_a"
	VariantB       Variant = "variant_b"
)

// Modules that can be placed under experiment.
const (
	ModulePreGuardrails  = "pre_guardrails"
	ModulePostGuardrails = "post_guardrails"
	ModuleAgent          = "agent"
)

// Assignment is the experiment treatment for one (user, module) pair.
// Recomputed per request from the stable hash, never persisted.
type Assignment struct {
	Module  string
	Variant Variant
	Enabled bool
}

// Bucket maps a user to a stable slot in 0..99: the md5 digest of the user id
// read as a big-endian integer, mod 100. Identical across processes and
// restarts.
func Bucket(userID string) int {
	sum := md5.Sum([]byte(userID))
	n := new(big.Int).SetBytes(sum[:])
	return int(new(big.Int).Mod(n, big.NewInt(100)).Int64())
}

// Assign buckets a user into a variant. Precondition: ratioA and ratioB are
// non-negative and sum to at most 100 (ExperimentConfig.Validate enforces
// this at the boundary).
func Assign(userID, module string, ratioA, ratioB int) Assignment {
	bucket := Bucket(userID)
	variant := VariantControl
	switch {
	case bucket < ratioA:
		variant = VariantA
	case bucket < ratioA+ratioB:
		variant = VariantB
	}
	return Assignment{Module: module, Variant: variant, Enabled: true}
}

// Resolve computes the assignments for all three modules under the given
// configuration. Modules outside the configured experiment get control.
func Resolve(cfg *config.ExperimentConfig, userID string) map[string]Assignment {
	out := map[string]Assignment{
		ModulePreGuardrails:  {Module: ModulePreGuardrails, Variant: VariantControl},
		ModulePostGuardrails: {Module: ModulePostGuardrails, Variant: VariantControl},
		ModuleAgent:          {Module: ModuleAgent, Variant: VariantControl},
	}
	if cfg == nil || !cfg.Enabled {
		return out
	}
	if _, ok := out[cfg.Module]; !ok {
		return out
	}
	out[cfg.Module] = Assign(userID, cfg.Module, cfg.RatioA, cfg.RatioB)
	return out
}
