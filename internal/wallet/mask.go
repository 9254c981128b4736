package wallet

import "strings"

const visibleDigits = 4

// MaskAccountNumber keeps the last four characters and stars out the rest.
// Values of four characters or fewer are returned as is.
func MaskAccountNumber(account string) string {
	r := []rune(account)
	if len(r) <= visibleDigits {
		return account
	}
	hidden := len(r) - visibleDigits
	return strings.Repeat("*", hidden) + string(r[hidden:])
}
