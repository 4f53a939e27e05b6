// Package namegen produces random identifiers for stored files.
package namegen

import (
	"crypto/rand"
	"log"
)

// Length is the number of characters in a generated name.
const Length = 7

// alphabet holds the 64 symbols a name is drawn from. The size being a
// power of two lets a 6-bit slice of each random byte index it without bias.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789-_"

// Generate returns a fresh 7-character name. Each character is drawn
// uniformly and independently from the 64-symbol alphabet using crypto/rand.
// A failing random source is not recoverable per call and aborts the process.
func Generate() string {
	var buf [Length]byte
	if _, err := rand.Read(buf[:]); err != nil {
		log.Fatalf("random source failed: %v", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[b>>2]
	}
	return string(buf[:])
}
