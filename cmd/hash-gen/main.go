package main

import (
	"fmt"
	"log"
	"os"

	"plate-plan.backend/pkg/crypto"
)

// Emits a bcrypt hash for seeding accounts by hand during local
// development. Pass the password as the first argument, or omit it
// to hash the dev fallback.
var (
	stdoutf = fmt.Printf
	hashFn  = crypto.HashPassword
	fatalf  = log.Fatalf
)

const fallbackPassword = "Plate.Plan-2026"

func passwordFromArgs(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return fallbackPassword
}

func main() {
	password := passwordFromArgs(os.Args[1:])

	hash, err := hashFn(password)
	if err != nil {
		fatalf("bcrypt hashing failed: %v", err)
	}

	stdoutf("password: %s\n", password)
	stdoutf("hash:     %s\n", hash)
}
