// Package ids generates the human readable identifiers used for companies and
// SKUs.
package ids

import (
	"crypto/rand"
	"math/big"
)

const (
	letters      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	CompanyIDLength = 6
	SKUSuffixLength = 8
	SKUIDLength     = CompanyIDLength + SKUSuffixLength
)

// CompanyID returns six random uppercase letters.
func CompanyID() (string, error) {
	return random(letters, CompanyIDLength)
}

// SKUID returns the company prefix followed by eight random alphanumerics.
func SKUID(companyID string) (string, error) {
	suffix, err := random(alphanumeric, SKUSuffixLength)
	if err != nil {
		return "", err
	}
	return companyID + suffix, nil
}

func random(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[v.Int64()]
	}
	return string(b), nil
}
