// cmd/genhash/main.go — prints the peppered bcrypt hash for a PIN.
// Usage: PIN_PEPPER=... go run ./cmd/genhash 4321
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <pin>")
		os.Exit(1)
	}
	pin := os.Args[1]
	pepper := os.Getenv("PIN_PEPPER")

	h, err := bcrypt.GenerateFromPassword([]byte(pin+pepper), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
