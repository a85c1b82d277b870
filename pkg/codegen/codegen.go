// Package codegen produces short identifiers for spaces. Collision
// probability, not secrecy, is the concern, so math/rand is enough.
package codegen

import (
	"math/rand"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a string of n characters drawn uniformly from [a-z0-9].
func Generate(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}
