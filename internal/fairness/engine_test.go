package fairness

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

func TestDerive_Deterministic(t *testing.T) {
	first, err := Derive("server-seed", "client-seed", 42)
	require.NoError(t, err)

	second, err := Derive("server-seed", "client-seed", 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDerive_MatchesHMACConstruction(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte("player:7"))
	want := float64(binary.BigEndian.Uint32(mac.Sum(nil)[:4])) / 0xFFFFFFFF

	got, err := Derive("s3cret", "player", 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDerive_InputsChangeOutput(t *testing.T) {
	base, err := Derive("server", "client", 1)
	require.NoError(t, err)

	otherNonce, err := Derive("server", "client", 2)
	require.NoError(t, err)
	otherClient, err := Derive("server", "client2", 1)
	require.NoError(t, err)
	otherServer, err := Derive("server2", "client", 1)
	require.NoError(t, err)

	assert.NotEqual(t, base, otherNonce)
	assert.NotEqual(t, base, otherClient)
	assert.NotEqual(t, base, otherServer)
}

func TestDerive_Range(t *testing.T) {
	for nonce := uint64(0); nonce < 5000; nonce++ {
		v, err := Derive("range-server", "range-client", nonce)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestDerive_MissingSeeds(t *testing.T) {
	_, err := Derive("", "client", 0)
	assert.ErrorIs(t, err, domain.ErrMissingServerSeed)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))

	_, err = Derive("server", "", 0)
	assert.ErrorIs(t, err, domain.ErrMissingClientSeed)
}

func TestCommitmentRoundTrip(t *testing.T) {
	seed, err := GenerateSeed()
	require.NoError(t, err)
	require.Len(t, seed, SeedBytes*2)

	published := HashServerSeed(seed)
	assert.True(t, VerifyCommitment(seed, published))
	assert.False(t, VerifyCommitment(seed+"x", published))
}

func TestHashServerSeed_KnownVector(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashServerSeed("abc"))
}
