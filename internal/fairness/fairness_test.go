package fairness

import (
	"testing"

	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerSeed = "7f9c2ba4e88f827d616045507605853ed73b8093f6efbc88eb1a6eacfa66ef26"

func TestAtRejectsEmptyServerSeed(t *testing.T) {
	_, err := At("", "client", 1)
	assert.ErrorIs(t, err, types.ErrInvalidSeed)
}

func TestFloatsDeterministic(t *testing.T) {
	d1, err := At(testServerSeed, "alice", 7)
	require.NoError(t, err)
	d2, err := At(testServerSeed, "alice", 7)
	require.NoError(t, err)

	assert.Equal(t, d1.Floats(16), d2.Floats(16))
}

func TestFloatsInUnitInterval(t *testing.T) {
	d, err := At(testServerSeed, "alice", 1)
	require.NoError(t, err)

	fs := d.Floats(64)
	require.Len(t, fs, 64)
	for i, f := range fs {
		assert.GreaterOrEqual(t, f, 0.0, "float %d", i)
		assert.Less(t, f, 1.0, "float %d", i)
	}
}

func TestFloatsPagingIsPrefixStable(t *testing.T) {
	// One HMAC page yields 8 floats. Asking for more must extend the
	// stream, not reshuffle it.
	d, err := At(testServerSeed, "alice", 3)
	require.NoError(t, err)

	short := d.Floats(8)
	long := d.Floats(24)
	assert.Equal(t, short, long[:8])
}

func TestFloatsVaryWithEachInput(t *testing.T) {
	base, err := At(testServerSeed, "alice", 1)
	require.NoError(t, err)
	otherClient, err := At(testServerSeed, "bob", 1)
	require.NoError(t, err)
	otherNonce, err := At(testServerSeed, "alice", 2)
	require.NoError(t, err)

	assert.NotEqual(t, base.Floats(4), otherClient.Floats(4))
	assert.NotEqual(t, base.Floats(4), otherNonce.Floats(4))
}

func TestDistinct(t *testing.T) {
	d, err := At(testServerSeed, "alice", 5)
	require.NoError(t, err)

	hits := d.Distinct(10, 40)
	require.Len(t, hits, 10)

	seen := make(map[int]bool)
	for i, n := range hits {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 40)
		assert.False(t, seen[n], "duplicate %d", n)
		seen[n] = true
		if i > 0 {
			assert.Greater(t, n, hits[i-1], "not sorted ascending")
		}
	}
}

func TestDistinctFullBoard(t *testing.T) {
	d, err := At(testServerSeed, "alice", 5)
	require.NoError(t, err)

	hits := d.Distinct(6, 6)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, hits)
}

func TestCommitStable(t *testing.T) {
	c := Commit(testServerSeed)
	assert.Len(t, c, 64)
	assert.Equal(t, c, Commit(testServerSeed))
	assert.NotEqual(t, c, Commit(testServerSeed+"x"))
}

func TestGenerateServerSeed(t *testing.T) {
	s1, err := GenerateServerSeed()
	require.NoError(t, err)
	s2, err := GenerateServerSeed()
	require.NoError(t, err)

	assert.Len(t, s1, 64)
	assert.NotEqual(t, s1, s2)
}

func TestNextAdvancesNonceByOne(t *testing.T) {
	acct := &types.Account{
		ID: "alice",
		Fairness: types.Fairness{
			ServerSeed: testServerSeed,
			ClientSeed: "alice",
			Nonce:      0,
		},
	}

	d, err := Next(acct)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.Nonce())
	assert.Equal(t, uint64(1), acct.Fairness.Nonce)

	d, err = Next(acct)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), d.Nonce())
	assert.Equal(t, uint64(2), acct.Fairness.Nonce)
}

func TestNextMatchesOfflineVerification(t *testing.T) {
	acct := &types.Account{
		ID: "alice",
		Fairness: types.Fairness{
			ServerSeed: testServerSeed,
			ClientSeed: "alice",
			Nonce:      41,
		},
	}

	live, err := Next(acct)
	require.NoError(t, err)

	replay, err := At(testServerSeed, "alice", 42)
	require.NoError(t, err)
	assert.Equal(t, replay.Floats(10), live.Floats(10))
}

func TestRotateClientSeed(t *testing.T) {
	acct := &types.Account{
		ID: "alice",
		Fairness: types.Fairness{
			ServerSeed: testServerSeed,
			ClientSeed: "old",
			Nonce:      17,
		},
	}

	retired, err := RotateClientSeed(acct, "  fresh  ")
	require.NoError(t, err)

	assert.Equal(t, testServerSeed, retired)
	assert.NotEqual(t, testServerSeed, acct.Fairness.ServerSeed)
	assert.Equal(t, "fresh", acct.Fairness.ClientSeed)
	assert.Equal(t, uint64(0), acct.Fairness.Nonce)
}

func TestRotateClientSeedRejectsEmpty(t *testing.T) {
	acct := &types.Account{
		ID: "alice",
		Fairness: types.Fairness{
			ServerSeed: testServerSeed,
			ClientSeed: "old",
			Nonce:      17,
		},
	}

	_, err := RotateClientSeed(acct, "   ")
	assert.ErrorIs(t, err, types.ErrInvalidSeed)
	assert.Equal(t, testServerSeed, acct.Fairness.ServerSeed)
	assert.Equal(t, "old", acct.Fairness.ClientSeed)
	assert.Equal(t, uint64(17), acct.Fairness.Nonce)
}

func TestProof(t *testing.T) {
	acct := &types.Account{
		ID: "alice",
		Fairness: types.Fairness{
			ServerSeed: testServerSeed,
			ClientSeed: "alice",
			Nonce:      9,
		},
	}

	p := Proof(acct)
	assert.Equal(t, Commit(testServerSeed), p.ServerSeedHash)
	assert.Equal(t, "alice", p.ClientSeed)
	assert.Equal(t, uint64(9), p.Nonce)
	assert.NotContains(t, p.ServerSeedHash, testServerSeed)

	// Proof is read-only: identical until a wager or rotation.
	assert.Equal(t, p, Proof(acct))
}
