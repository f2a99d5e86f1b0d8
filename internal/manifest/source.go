// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/orgctl/orgctl/internal/aws"
)

const s3Prefix = "s3://"

// ParseSpec parses a manifest spec of the form "source[::org]" and returns
// the source and any optional organization override. Local sources must
// exist and be regular files; s3:// and stdin ("-") sources are only
// validated at read time. The source is returned as given, because diff
// reports name the manifest the way the user wrote it.
func ParseSpec(spec string) (string, string, error) {

	if spec == "" {
		return "", "", os.ErrInvalid
	}

	var org string

	// First, split the spec to see if there is an ::org override.
	parts := strings.Split(spec, "::")
	if len(parts) > 1 {
		org = parts[1]
	}
	source := parts[0]

	if source != "-" && !strings.HasPrefix(source, s3Prefix) {
		r, err := os.Stat(source)
		if err != nil {
			return "", "", err
		}
		if r.IsDir() {
			return "", "", os.ErrInvalid
		}
	}

	return source, org, nil
}

// Fetch resolves a manifest source. Plain paths read from the local
// filesystem; s3://bucket/key sources read through S3.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, s3Prefix) {
		bucket, key, ok := strings.Cut(strings.TrimPrefix(source, s3Prefix), "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid manifest source %q (want s3://bucket/key)", source)
		}
		return aws.FetchObject(ctx, bucket, key)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", source, err)
	}
	return data, nil
}
