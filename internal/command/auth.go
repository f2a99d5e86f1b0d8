// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/credstore"
	"github.com/orgctl/orgctl/internal/manifest"
	"github.com/orgctl/orgctl/internal/meta"
)

// authCommandAction is the action handler for the "auth" subcommand. It
// prompts for a service's API credentials and writes them to the encrypted
// credentials store. Secrets are read without echo and never logged.
func authCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "auth"

	service := strings.ToLower(cmd.Args().First())
	if err := OneOfValidator(string(manifest.ServiceGitHub), string(manifest.ServiceBitwarden))(service); err != nil {
		return fmt.Errorf("unknown service %q: %w", service, err)
	}

	fields := map[string]string{}
	switch service {
	case string(manifest.ServiceGitHub):
		token, err := credstore.PromptSecret("GitHub token (read:org): ")
		if err != nil {
			return err
		}
		fields["token"] = token

	case string(manifest.ServiceBitwarden):
		clientID, err := credstore.PromptSecret("Bitwarden client_id: ")
		if err != nil {
			return err
		}
		clientSecret, err := credstore.PromptSecret("Bitwarden client_secret: ")
		if err != nil {
			return err
		}
		fields["client_id"] = clientID
		fields["client_secret"] = clientSecret
	}

	passphrase, err := credstore.ResolvePassphrase(cmd)
	if err != nil {
		return err
	}

	path, err := credstore.Save(passphrase, service, fields)
	if err != nil {
		return err
	}

	fmt.Printf("Credentials for %s written to %s\n", service, path)
	return nil
}

// authCommandBuilder constructs the cli.Command for "auth", wiring metadata,
// flags, and the action handler.
func authCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "auth",
		Usage:     "store service credentials",
		UsageText: "orgctl auth [github|bitwarden]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			passphraseFlag,
		},
		Action: authCommandAction,
	}
}
