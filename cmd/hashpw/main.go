// Command hashpw reads an admin password from stdin and prints the bcrypt
// hash to put in BOOKSTORE_ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"bookstore/internal/platform/crypto"
	"bookstore/internal/platform/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bookstore-hashpw", Format: "console", Output: os.Stderr})
	if err := run(os.Stdin, os.Stdout); err != nil {
		logg.Error(context.Background(), "hash password", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
