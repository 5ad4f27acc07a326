// Package randompkg provides functionality gor generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// RecipientName generates a random two-part recipient name.
func RecipientName() string {
	return String(5) + " " + String(7)
}

// AccountNumber generates a random IBAN-looking account identifier.
func AccountNumber() string {
	return fmt.Sprintf("MN%02d 0005 00 %05d%05d", Intn(100), Intn(100_000), Intn(100_000))
}

// MoneyAmountBetween generates a random amount between min and max
// rounded to 2 decimals, rendered as a string.
func MoneyAmountBetween(min, max int) string {
	whole := int64(min) + Intn(max-min)
	cents := Intn(100)

	return decimal.NewFromInt(whole*100 + cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
