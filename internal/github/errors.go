// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	gogithub "github.com/google/go-github/v66/github"
)

// ErrorContext carries input context for improving API error messages.
type ErrorContext struct {
	Org       string
	Team      string
	Operation string // e.g., "list members", "list teams"
}

// Friendly wraps a GitHub API error with a contextual, user-friendly message
// while preserving the original error for further inspection via
// errors.Is/As.
func Friendly(err error, ctx ErrorContext) error {
	if err == nil {
		return nil
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%s: rate limited until %s",
			nonEmpty(ctx.Operation, "request"), rateErr.Rate.Reset.Time.Format(time.RFC1123))
	}

	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: authentication failed (401). Set GITHUB_TOKEN or run 'orgctl auth github'",
				nonEmpty(ctx.Operation, "request"))

		case http.StatusForbidden:
			return fmt.Errorf("%s: access denied (403); the token needs read:org on %q",
				nonEmpty(ctx.Operation, "request"), nonEmpty(ctx.Org, "<unknown>"))

		case http.StatusNotFound:
			if ctx.Team != "" {
				return fmt.Errorf("%s: team %q not found in organization %q (404)",
					nonEmpty(ctx.Operation, "request"), ctx.Team, nonEmpty(ctx.Org, "<unknown>"))
			}
			return fmt.Errorf("%s: organization %q not found (404)",
				nonEmpty(ctx.Operation, "request"), nonEmpty(ctx.Org, "<unknown>"))
		}
	}

	// Unknown error: provide generic context and wrap
	return fmt.Errorf("%s for org=%q: %w", nonEmpty(ctx.Operation, "request"), ctx.Org, err)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
