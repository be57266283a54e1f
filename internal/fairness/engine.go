// Package fairness implements the provably fair random engine: a keyed,
// replayable derivation of a uniform value from a server seed, a client seed
// and a nonce, plus the SHA-256 commitment scheme that lets players audit it.
package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// largestBelowOne is the value returned when the digest prefix is all ones
var largestBelowOne = math.Nextafter(1, 0)

// Derive returns HMAC-SHA256(serverSeed, clientSeed+":"+nonce) mapped into [0,1).
// The first 4 digest bytes are read big-endian and divided by 0xFFFFFFFF.
// A prefix of 0xFFFFFFFF would yield exactly 1, so it is clamped just below.
func Derive(serverSeed, clientSeed string, nonce uint64) (float64, error) {
	if serverSeed == "" {
		return 0, domain.ErrMissingServerSeed
	}
	if clientSeed == "" {
		return 0, domain.ErrMissingClientSeed
	}

	mac := hmac.New(sha256.New, []byte(serverSeed))
	mac.Write([]byte(clientSeed + ":" + strconv.FormatUint(nonce, 10)))
	digest := mac.Sum(nil)

	n := binary.BigEndian.Uint32(digest[:4])
	if n == maxUint32 {
		return largestBelowOne, nil
	}
	return float64(n) / maxUint32, nil
}

// HashServerSeed returns the hex SHA-256 commitment of a server seed
func HashServerSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment reports whether serverSeed hashes to the published commitment
func VerifyCommitment(serverSeed, publishedHash string) bool {
	got := HashServerSeed(serverSeed)
	return subtle.ConstantTimeCompare([]byte(got), []byte(publishedHash)) == 1
}

// GenerateSeed returns a hex encoded random seed from crypto/rand
func GenerateSeed() (string, error) {
	buf := make([]byte, SeedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", ErrContextGenerateSeed, err)
	}
	return hex.EncodeToString(buf), nil
}
