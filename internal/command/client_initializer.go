// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/bitwarden"
	"github.com/orgctl/orgctl/internal/credstore"
	"github.com/orgctl/orgctl/internal/github"
)

// InitGitHubQuery resolves credentials and the target organization for
// commands that read live GitHub state. It returns the API client and the
// resolved org, or an error if either cannot be determined.
func InitGitHubQuery(
	ctx context.Context,
	cmd *cli.Command,
	fallback string,
) (*github.Client, string, error) {
	token, err := credstore.GitHubToken(cmd)
	if err != nil {
		return nil, "", err
	}

	client := github.NewClient(ctx, token)

	org, err := ResolveOrg(cmd, fallback)
	if err != nil {
		return nil, "", err
	}
	log.Debugf("org: %s", org)

	return client, org, nil
}

// InitBitwardenQuery resolves the API key pair and constructs the Bitwarden
// client. Bitwarden organization API keys are scoped to a single org, so
// there is no org to resolve here.
func InitBitwardenQuery(
	ctx context.Context,
	cmd *cli.Command,
) (*bitwarden.Client, error) {
	creds, err := credstore.BitwardenCredentials(cmd)
	if err != nil {
		return nil, err
	}

	return bitwarden.NewClient(ctx, creds.ClientID, creds.ClientSecret), nil
}

// ResolveOrg determines the organization for a command. The --org flag (with
// its env and config file sources) wins, then a ::org override from the
// manifest spec, then the fallback, which for diff commands is the manifest's
// own organization name.
func ResolveOrg(cmd *cli.Command, fallback string) (string, error) {
	org := cmd.String("org")

	if org == "" {
		org = GetMeta(cmd).ManifestSpec.Org
	}

	if org == "" {
		org = fallback
	}

	if org == "" {
		return "", errors.New("failed to resolve organization: set --org or ORGCTL_ORG")
	}

	return org, nil
}
