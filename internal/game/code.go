package game

import "crypto/rand"

// codeAlphabet deliberately drops I, O, 0 and 1 so codes survive being read
// aloud or handwritten.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a duel code.
const CodeLength = 6

// GenerateCode returns a random 6-char duel code. It does not check for
// collisions; the creator retries on a duplicate-key error from the store.
func GenerateCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(code), nil
}
