// Package edgeaddr generates addresses of CDN edge servers.
package edgeaddr

import (
	"fmt"
	"math/rand"
	"time"
)

// cloudflarePrefix is the /16 from which we pick edge addresses.
const cloudflarePrefix = "104.16"

// octetMin and octetMax bound the random octets.
const (
	octetMin = 1
	octetMax = 252
)

// New returns a random source seeded with the current time.
func New() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RandomCloudflareAddress returns a random 104.16.B.C address where
// both B and C are uniformly distributed in [1, 252].
func RandomCloudflareAddress(r *rand.Rand) string {
	return fmt.Sprintf("%s.%d.%d", cloudflarePrefix, randomOctet(r), randomOctet(r))
}

func randomOctet(r *rand.Rand) int {
	return octetMin + r.Intn(octetMax-octetMin+1)
}
