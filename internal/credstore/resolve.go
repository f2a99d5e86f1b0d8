// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package credstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

// Credentials is a Bitwarden organization API key pair.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// GitHubToken resolves a GitHub token. The GITHUB_TOKEN environment variable
// wins; after that the encrypted credentials file is consulted. The token
// needs the read:org permission.
func GitHubToken(cmd *cli.Command) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	doc, exists, err := readStore(cmd)
	if err != nil {
		return "", err
	}
	if exists {
		if token := gjson.GetBytes(doc, "github.token").String(); token != "" {
			return token, nil
		}
	}

	return "", errors.New(
		"expected GITHUB_TOKEN to be set, or a token stored via 'orgctl auth github'")
}

// BitwardenCredentials resolves a Bitwarden API key pair the same way:
// BITWARDEN_CLIENT_ID/BITWARDEN_CLIENT_SECRET first, then the credentials
// file. The two halves may come from different sources.
func BitwardenCredentials(cmd *cli.Command) (Credentials, error) {
	id := os.Getenv("BITWARDEN_CLIENT_ID")
	secret := os.Getenv("BITWARDEN_CLIENT_SECRET")

	if id == "" || secret == "" {
		doc, exists, err := readStore(cmd)
		if err != nil {
			return Credentials{}, err
		}
		if exists {
			if id == "" {
				id = gjson.GetBytes(doc, "bitwarden.client_id").String()
			}
			if secret == "" {
				secret = gjson.GetBytes(doc, "bitwarden.client_secret").String()
			}
		}
	}

	if id == "" {
		return Credentials{}, errors.New(
			"expected BITWARDEN_CLIENT_ID to be set, or stored via 'orgctl auth bitwarden'")
	}
	if secret == "" {
		return Credentials{}, errors.New(
			"expected BITWARDEN_CLIENT_SECRET to be set, or stored via 'orgctl auth bitwarden'")
	}

	return Credentials{ClientID: id, ClientSecret: secret}, nil
}

// ResolvePassphrase looks for the store passphrase on the --passphrase flag,
// then in ORGCTL_PASSPHRASE, and finally prompts for it.
func ResolvePassphrase(cmd *cli.Command) (string, error) {
	// First, look to the flag for passphrase value.
	passphrase := ""
	if cmd != nil {
		passphrase = cmd.String("passphrase")
	}

	// Next look in env ORGCTL_PASSPHRASE and use it if found.
	if passphrase == "" {
		passphrase = os.Getenv("ORGCTL_PASSPHRASE")
	}

	// Finally, prompt for passphrase
	if passphrase == "" {
		return GetPassphrase()
	}

	return passphrase, nil
}

// readStore decrypts the credentials file if it exists. The passphrase is
// only resolved (and possibly prompted for) once the file is known to be
// there.
func readStore(cmd *cli.Command) ([]byte, bool, error) {
	path, err := Path()
	if err != nil {
		return nil, false, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, false, nil
	}

	passphrase, err := ResolvePassphrase(cmd)
	if err != nil {
		return nil, true, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, true, err
	}

	doc, err := Decrypt(data, passphrase)
	if err != nil {
		return nil, true, fmt.Errorf("failed to decrypt %s: %w", path, err)
	}

	return doc, true, nil
}
