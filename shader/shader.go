// Package shader generates shading program sources specialized for a
// target texture unit count.
//
// Multi-texture batching needs a fragment program that selects one of N
// samplers from a per-vertex index. Some backends forbid runtime-indexed
// sampler arrays, so the selection is unrolled into a chain of
// constant-subscript conditionals generated at configuration time from a
// template.
package shader

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// Placeholder tokens recognized in fragment templates. A valid template
// contains exactly one occurrence of each.
const (
	// CountToken is replaced with the decimal texture unit count. It sizes
	// the sampler array declaration.
	CountToken = "%count%"
	// LoopToken is replaced with one sampling conditional per texture
	// unit, in ascending unit order.
	LoopToken = "%forloop%"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[cacheKey][]byte)
)

type cacheKey struct {
	template uint64
	units    int
}

// Expand produces a concrete fragment source from template, specialized
// for maxTextureUnits. Results are cached process-wide: unit counts are
// queried from the hardware once and remain constant, so each (template,
// count) pair is expanded at most once.
//
// A missing or duplicated placeholder token is a configuration error and
// is reported here, never at render time.
func Expand(template []byte, maxTextureUnits int) ([]byte, error) {
	if maxTextureUnits < 1 {
		return nil, errors.Errorf("shader: invalid texture unit count %d", maxTextureUnits)
	}

	h := fnv.New64a()
	h.Write(template)
	key := cacheKey{template: h.Sum64(), units: maxTextureUnits}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if src, ok := cache[key]; ok {
		return src, nil
	}

	if n := bytes.Count(template, []byte(CountToken)); n != 1 {
		return nil, errors.Errorf("shader: template must contain exactly one %s token, found %d", CountToken, n)
	}
	if n := bytes.Count(template, []byte(LoopToken)); n != 1 {
		return nil, errors.Errorf("shader: template must contain exactly one %s token, found %d", LoopToken, n)
	}

	src := bytes.Replace(template, []byte(CountToken), []byte(strconv.Itoa(maxTextureUnits)), 1)
	src = bytes.Replace(src, []byte(LoopToken), sampleChain(maxTextureUnits), 1)
	cache[key] = src
	return src, nil
}

// sampleChain unrolls sampler selection for n units. The last unit is the
// unconditional else branch, so out of range indices fall back to it
// instead of leaving color undefined.
func sampleChain(n int) []byte {
	var b bytes.Buffer
	for i := 0; i < n; i++ {
		b.WriteByte('\t')
		if i > 0 {
			b.WriteString("else ")
		}
		if i < n-1 {
			fmt.Fprintf(&b, "if (vTexID < %d.5)\n\t\t", i)
		}
		fmt.Fprintf(&b, "color = texture2D(uSamplers[%d], vUV);", i)
		if i < n-1 {
			b.WriteByte('\n')
		}
	}
	return b.Bytes()
}
