// genhash prints a bcrypt hash for ADMIN_PASSWORD_HASH.
//
//	ADMIN_PASSWORD='s3cret' go run ./scripts/genhash.go
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" && flag.NArg() > 0 {
		password = flag.Arg(0)
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "usage: ADMIN_PASSWORD=... go run ./scripts/genhash.go [-cost 12]")
		os.Exit(2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
