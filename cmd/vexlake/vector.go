package main

import (
	"strconv"
	"strings"

	"github.com/nvandessel/vexlake/internal/vxerr"
)

// parseVector parses a comma-separated list of floats, e.g. "1,2.5,-3".
func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, vxerr.Wrap(vxerr.InvalidConfig, err, "parse vector component %q", p)
		}
		out[i] = float32(f)
	}
	return out, nil
}
