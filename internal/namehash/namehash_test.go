package namehash_test

import (
	"bytes"
	"testing"

	"github.com/ndnfastpath/router/internal/core"
	"github.com/ndnfastpath/router/internal/namehash"
	"github.com/stretchr/testify/assert"
)

func TestZeroLengthNameHashesToConstant(t *testing.T) {
	for _, alg := range []core.HashAlgorithm{core.HashSimple, core.HashJenkins, core.HashMurmur, core.HashXXHash} {
		h1 := namehash.HashWith(alg, []byte{}, 0, 0)
		h2 := namehash.HashWith(alg, []byte{}, 0, 0)
		assert.Equal(t, h1, h2, "algorithm %v must be deterministic on empty input", alg)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	name := []byte("/foo/ba")
	for _, alg := range []core.HashAlgorithm{core.HashSimple, core.HashJenkins, core.HashMurmur, core.HashXXHash} {
		a := namehash.HashWith(alg, name, 0, len(name))
		b := namehash.HashWith(alg, name, 0, len(name))
		assert.Equal(t, a, b)
	}
}

func TestHashCapsAt64Bytes(t *testing.T) {
	short := bytes.Repeat([]byte{'x'}, namehash.MaxHashedBytes)
	long := append(bytes.Clone(short), []byte("this tail must not affect the hash at all")...)

	for _, alg := range []core.HashAlgorithm{core.HashSimple, core.HashJenkins, core.HashMurmur, core.HashXXHash} {
		a := namehash.HashWith(alg, short, 0, len(short))
		b := namehash.HashWith(alg, long, 0, len(long))
		assert.Equal(t, a, b, "algorithm %v must ignore bytes past the 64-byte window", alg)
	}
}

func TestDifferentNamesLikelyHashDifferently(t *testing.T) {
	for _, alg := range []core.HashAlgorithm{core.HashSimple, core.HashJenkins, core.HashMurmur, core.HashXXHash} {
		a := namehash.HashWith(alg, []byte("/foo/ba"), 0, 7)
		b := namehash.HashWith(alg, []byte("/foo/bb"), 0, 7)
		assert.NotEqual(t, a, b, "algorithm %v collided on an easy case", alg)
	}
}

func TestHashRespectsLiveConfigAlgorithm(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.HashAlgorithm = core.HashSimple
	core.SetLive(cfg)
	defer core.SetLive(core.DefaultConfig())

	name := []byte("/foo/ba")
	assert.Equal(t, namehash.HashWith(core.HashSimple, name, 0, len(name)), namehash.Hash(name, 0, len(name)))
}
