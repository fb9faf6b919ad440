// Package random holds a few functions for working with random names
package random

import (
	"math/rand"
	"time"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func init() {
	rand.Seed(time.Now().UnixNano())
}

// String creates a random alphanumeric string of length n, suitable for
// use as a file name inside a sandbox.
//
// Do not use these for passwords.
func String(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(out)
}
