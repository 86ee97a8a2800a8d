// Package fairness derives verifiable pseudo-random draws from
// (server seed, client seed, nonce).
//
// Scheme, reproducible offline by anyone holding all three inputs:
//
//	page(c)  = HMAC-SHA256(key=serverSeed, msg=clientSeed:nonce:c)
//	stream   = page(0) || page(1) || ...
//	float(i) = bigEndianUint32(stream[4i:4i+4]) / 2^32
//
// The server seed is committed to as hex(SHA-256(serverSeed)) before any
// round, and only revealed once a client seed rotation retires it.
package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cloutscape/wager-engine/pkg/common/types"
)

const (
	serverSeedBytes = 32
	// DefaultClientSeed is used until the player supplies their own.
	DefaultClientSeed = "default"
)

// GenerateServerSeed returns a fresh hex-encoded 32-byte secret.
func GenerateServerSeed() (string, error) {
	b := make([]byte, serverSeedBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate server seed: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Commit returns the one-way commitment for a server seed, safe to show to
// the player before any round under that seed.
func Commit(serverSeed string) string {
	h := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(h[:])
}

// NewFairness builds the initial seed state for a fresh account.
func NewFairness() (types.Fairness, error) {
	seed, err := GenerateServerSeed()
	if err != nil {
		return types.Fairness{}, err
	}
	return types.Fairness{
		ServerSeed: seed,
		ClientSeed: DefaultClientSeed,
		Nonce:      0,
	}, nil
}

// Draw is one verifiable draw: a fixed (serverSeed, clientSeed, nonce)
// triple from which any number of floats can be paged deterministically.
type Draw struct {
	serverSeed string
	clientSeed string
	nonce      uint64
}

// At builds a draw for explicit inputs, used for offline verification.
func At(serverSeed, clientSeed string, nonce uint64) (Draw, error) {
	if serverSeed == "" {
		return Draw{}, types.ErrInvalidSeed
	}
	return Draw{serverSeed: serverSeed, clientSeed: clientSeed, nonce: nonce}, nil
}

// Next advances the account nonce by exactly 1 and returns the draw for the
// new nonce. This is the only way nonces move: one call, one nonce, one draw.
func Next(acct *types.Account) (Draw, error) {
	d, err := At(acct.Fairness.ServerSeed, acct.Fairness.ClientSeed, acct.Fairness.Nonce+1)
	if err != nil {
		return Draw{}, err
	}
	acct.Fairness.Nonce++
	return d, nil
}

func (d Draw) Nonce() uint64 {
	return d.nonce
}

// HMAC paging: message = clientSeed : nonce : cursor (ASCII, no padding).
func (d Draw) page(cursor uint32) [32]byte {
	msg := d.clientSeed + ":" + strconv.FormatUint(d.nonce, 10) + ":" + strconv.FormatUint(uint64(cursor), 10)
	m := hmac.New(sha256.New, []byte(d.serverSeed))
	m.Write([]byte(msg))
	var out [32]byte
	copy(out[:], m.Sum(nil))
	return out
}

// bytes generates at least need bytes by concatenating pages cursor=0,1,2,...
func (d Draw) bytes(need int) []byte {
	out := make([]byte, 0, need)
	var cursor uint32
	for len(out) < need {
		page := d.page(cursor)
		rem := need - len(out)
		if rem >= len(page) {
			out = append(out, page[:]...)
		} else {
			out = append(out, page[:rem]...)
		}
		cursor++
	}
	return out
}

// Floats returns count floats in [0,1): big-endian u32 / 2^32.
func (d Draw) Floats(count int) []float64 {
	b := d.bytes(count * 4)
	floats := make([]float64, count)
	for i := 0; i < count; i++ {
		u := binary.BigEndian.Uint32(b[i*4 : i*4+4])
		floats[i] = float64(u) / 4294967296.0 // 2^32
	}
	return floats
}

// Distinct draws count unique integers in [1,boardSize] via a partial
// Fisher-Yates shuffle over the float stream, sorted ascending.
func (d Draw) Distinct(count, boardSize int) []int {
	if count > boardSize {
		count = boardSize
	}
	fs := d.Floats(count)
	pool := make([]int, boardSize)
	for i := 0; i < boardSize; i++ {
		pool[i] = i + 1
	}
	hits := make([]int, 0, count)
	for i := 0; i < count; i++ {
		size := boardSize - i
		idx := int(math.Floor(fs[i] * float64(size)))
		if idx >= size {
			idx = size - 1
		}
		hits = append(hits, pool[idx])
		pool[idx] = pool[size-1]
		pool = pool[:size-1]
	}
	sort.Ints(hits)
	return hits
}

// RotateClientSeed installs a new client seed, generates a fresh server
// seed, and resets the nonce. It returns the retired server seed so the
// player can verify every round played under the old pair. Rounds under the
// old pair can no longer be verified against the new commitment.
func RotateClientSeed(acct *types.Account, newSeed string) (retired string, err error) {
	newSeed = strings.TrimSpace(newSeed)
	if newSeed == "" {
		return "", types.ErrInvalidSeed
	}
	serverSeed, err := GenerateServerSeed()
	if err != nil {
		return "", err
	}
	retired = acct.Fairness.ServerSeed
	acct.Fairness.ServerSeed = serverSeed
	acct.Fairness.ClientSeed = newSeed
	acct.Fairness.Nonce = 0
	return retired, nil
}

// Proof reveals the commitment hash, the client seed and the current nonce.
// The live server seed itself is never exposed.
func Proof(acct *types.Account) types.FairnessProof {
	return types.FairnessProof{
		ServerSeedHash: Commit(acct.Fairness.ServerSeed),
		ClientSeed:     acct.Fairness.ClientSeed,
		Nonce:          acct.Fairness.Nonce,
	}
}
