package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/budgetwise/budgetwise-go/internal/util"
)

// Generates a bcrypt hash for seeding test users directly into the users
// table. Enforces the same password policy as signup so seeded accounts
// behave like real ones.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	password := os.Args[1]
	if !util.IsValidPassword(password) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", util.PasswordPolicyMessage)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(hash))
}
