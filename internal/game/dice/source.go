package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand"
	"sync"
	"time"
)

// cryptoSource implements Source using crypto/rand, falling back to a
// locked math/rand generator if the system entropy source fails.
//
// Invariant: values produced are uniformly distributed in [0, n) for any
// n > 0 regardless of which backend served the call.
type cryptoSource struct {
	once     sync.Once
	mu       sync.Mutex
	fallback *mathrand.Rand
}

// NewSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n); entropy
// failures degrade to a seeded math/rand source instead of panicking.
func NewSource() Source {
	return &cryptoSource{}
}

// Intn returns a uniformly distributed random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" otherwise.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return c.fallbackIntn(n)
	}
	return int(val.Int64())
}

func (c *cryptoSource) fallbackIntn(n int) int {
	c.once.Do(func() {
		var seed int64
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(buf[:]))
		} else {
			seed = time.Now().UnixNano()
		}
		c.fallback = mathrand.New(mathrand.NewSource(seed))
	})
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallback.Intn(n)
}
