// go-utils/random.go

package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomNumericCode draws a uniform integer in [0, 10^digits) and renders it
// zero-padded, so "007042" is as likely as any other code.
func RandomNumericCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
