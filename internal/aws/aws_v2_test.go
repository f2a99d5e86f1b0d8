// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"net/url"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	smithyendpoints "github.com/aws/smithy-go/endpoints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticEndpoint resolves every request to one fixed URI. Stands in for a
// LocalStack or MinIO endpoint.
type staticEndpoint struct {
	uri url.URL
}

func (r staticEndpoint) ResolveEndpoint(_ context.Context, _ s3v2.EndpointParameters) (smithyendpoints.Endpoint, error) {
	return smithyendpoints.Endpoint{URI: r.uri}, nil
}

func TestOptions(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		for _, profile := range []string{"", "default", "my-profile"} {
			var o options
			WithProfile(profile)(&o)
			assert.Equal(t, profile, o.profile)
		}
	})

	t.Run("region", func(t *testing.T) {
		for _, region := range []string{"", "us-east-1", "eu-west-1"} {
			var o options
			WithRegion(region)(&o)
			assert.Equal(t, region, o.region)
		}
	})

	t.Run("retryer", func(t *testing.T) {
		var o options
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&o)

		require.NotNil(t, o.retryer)
		assert.NotNil(t, o.retryer())
	})

	t.Run("options stack", func(t *testing.T) {
		var o options
		WithProfile("test-profile")(&o)
		WithRegion("ap-southeast-1")(&o)
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&o)

		assert.Equal(t, "test-profile", o.profile)
		assert.Equal(t, "ap-southeast-1", o.region)
		assert.NotNil(t, o.retryer)
	})
}

func TestLoadAWSConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults load without overrides", func(t *testing.T) {
		// The default chain resolves locally even with no credentials on
		// hand; lookups are deferred until a call is made.
		cfg, err := LoadAWSConfig(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, cfg)
	})

	t.Run("region override lands in the config", func(t *testing.T) {
		for _, region := range []string{"us-west-2", "eu-west-1", "ap-southeast-1"} {
			cfg, err := LoadAWSConfig(ctx, WithRegion(region))

			require.NoError(t, err)
			assert.Equal(t, region, cfg.Region)
		}
	})

	t.Run("later option wins", func(t *testing.T) {
		cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"), WithRegion("eu-west-1"))

		require.NoError(t, err)
		assert.Equal(t, "eu-west-1", cfg.Region)
	})

	t.Run("retryer rides alongside other options", func(t *testing.T) {
		cfg, err := LoadAWSConfig(
			ctx,
			WithRegion("eu-central-1"),
			WithRetryer(func() awsv2.Retryer { return retry.NewStandard() }),
		)

		require.NoError(t, err)
		assert.Equal(t, "eu-central-1", cfg.Region)
	})

	t.Run("profile is passed through", func(t *testing.T) {
		// Whether the profile exists is host-specific. The load must not
		// panic either way.
		if cfg, err := LoadAWSConfig(ctx, WithProfile("default")); err == nil {
			assert.NotNil(t, cfg)
		}
	})

	t.Run("canceled context is tolerated", func(t *testing.T) {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		// Config loading may or may not check the context before finishing.
		// Either outcome is fine as long as it returns.
		_, _ = LoadAWSConfig(canceled)
	})
}

func TestNewS3(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a client from config", func(t *testing.T) {
		cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"))
		require.NoError(t, err)

		client := NewS3(cfg)

		require.NotNil(t, client)
		assert.IsType(t, &s3v2.Client{}, client)
	})

	t.Run("service options apply", func(t *testing.T) {
		cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"))
		require.NoError(t, err)

		client := NewS3(cfg, func(o *s3v2.Options) { o.RetryMaxAttempts = 2 })

		assert.NotNil(t, client)
	})
}

func TestWithS3EndpointResolver(t *testing.T) {
	target, err := url.Parse("https://minio.internal:9000")
	require.NoError(t, err)

	var o s3v2.Options
	WithS3EndpointResolver(staticEndpoint{uri: *target})(&o)

	require.NotNil(t, o.EndpointResolverV2)
	got, err := o.EndpointResolverV2.ResolveEndpoint(context.Background(), s3v2.EndpointParameters{})
	require.NoError(t, err)
	assert.Equal(t, *target, got.URI)
}
