package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const orderCodeDigits = 4

var orderCodeSpace = big.NewInt(10_000)

// newOrderCode код для передачи из рук в руки, 4 цифры с ведущими нулями.
func newOrderCode() (string, error) {
	n, err := rand.Int(rand.Reader, orderCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate order code: %w", err)
	}
	return fmt.Sprintf("%0*d", orderCodeDigits, n.Int64()), nil
}
