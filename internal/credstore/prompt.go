// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package credstore

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// PromptSecret reads a secret from the terminal, echoing stars instead of
// the typed characters.
func PromptSecret(label string) (string, error) {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	restore, err := rawMode()
	if err != nil {
		return "", err
	}
	defer restore()

	fmt.Print(label)
	defer fmt.Print("\r")

	var secret []byte
	for {
		select {
		case <-interrupts:
			fmt.Println("\nInterrupt received, exiting...")
			return "", fmt.Errorf("interrupted")
		default:
		}

		ch, ok := nextByte()
		if !ok || ch == '\n' || ch == '\r' {
			break
		}

		switch ch {
		case 127, 8: // backspace
			if len(secret) > 0 {
				secret = secret[:len(secret)-1]
				fmt.Print("\b \b")
			}
		default:
			secret = append(secret, ch)
			fmt.Print("*")
		}
	}

	fmt.Println()
	return string(secret), nil
}

// GetPassphrase prompts interactively for a passphrase without echoing input.
func GetPassphrase() (string, error) {
	return PromptSecret("Enter passphrase: ")
}

// rawMode puts stdin into raw mode and hands back the restore func.
func rawMode() (func(), error) {
	prev, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		return nil, err
	}
	return func() {
		_ = term.Restore(int(syscall.Stdin), prev) //nolint:errcheck
	}, nil
}

// nextByte reads one byte from stdin. ok is false on EOF or a read error.
func nextByte() (byte, bool) {
	var buf [1]byte
	n, err := syscall.Read(syscall.Stdin, buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}
