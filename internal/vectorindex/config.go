package vectorindex

import (
	"math"
	"math/rand/v2"

	"github.com/nvandessel/vexlake/internal/vxerr"
)

// Config holds the construction parameters for an Index. Zero-valued
// fields are replaced with the defaults below by New.
type Config struct {
	// Dimension is the required vector length D. No default — callers
	// must set this explicitly.
	Dimension int

	// M is the target out-degree for layers above 0. Default: 16.
	M int

	// MMax0 is the max out-degree on layer 0. Default: 32.
	MMax0 int

	// EfConstruction is the beam width used while inserting. Default: 200.
	EfConstruction int

	// Ml scales the layer-assignment draw. Default: 1/ln(M).
	Ml float64

	// Rand seeds layer assignment so graph topology (and therefore
	// measured recall) is reproducible across runs. Nil uses the
	// package-level math/rand/v2 source.
	Rand *rand.Rand
}

const (
	defaultM              = 16
	defaultMMax0          = 32
	defaultEfConstruction = 200
)

func (c Config) withDefaults() Config {
	out := c
	if out.M == 0 {
		out.M = defaultM
	}
	if out.MMax0 == 0 {
		out.MMax0 = defaultMMax0
	}
	if out.EfConstruction == 0 {
		out.EfConstruction = defaultEfConstruction
	}
	if out.Ml == 0 {
		out.Ml = 1.0 / math.Log(float64(out.M))
	}
	return out
}

func (c Config) validate() error {
	if c.Dimension <= 0 {
		return vxerr.New(vxerr.InvalidConfig, "dimension must be positive, got %d", c.Dimension)
	}
	if c.M <= 0 {
		return vxerr.New(vxerr.InvalidConfig, "m must be positive, got %d", c.M)
	}
	if c.MMax0 <= 0 {
		return vxerr.New(vxerr.InvalidConfig, "m_max_0 must be positive, got %d", c.MMax0)
	}
	if c.EfConstruction <= 0 {
		return vxerr.New(vxerr.InvalidConfig, "ef_construction must be positive, got %d", c.EfConstruction)
	}
	return nil
}

// randFloat64 draws from cfg.Rand if set, else the package-level source.
func (c Config) randFloat64() float64 {
	if c.Rand != nil {
		return c.Rand.Float64()
	}
	return rand.Float64()
}
