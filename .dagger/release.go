package main

import (
	"context"
	"fmt"
	"path"

	"dagger/kiosk/internal/dagger"
)

// bucket is an S3-compatible bucket kiosk releases are published to.
type bucket struct {
	endpoint        *dagger.Secret
	name            *dagger.Secret
	accessKeyId     *dagger.Secret
	secretAccessKey *dagger.Secret
}

// withChecksums adds a SHA256SUMS file covering every binary in artifacts so
// office deployments can verify what they download.
func (t *Kiosk) withChecksums(artifacts *dagger.Directory) *dagger.Directory {
	return dag.Container().
		From("alpine:3").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{"sh", "-c", "find linux -type f | sort | xargs sha256sum > SHA256SUMS"}).
		Directory("/artifacts")
}

// publish syncs artifacts to <bucket>/<prefix>.
func (b *bucket) publish(ctx context.Context, artifacts *dagger.Directory, prefix string) error {
	name, err := b.name.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("failed to read bucket name: %w", err)
	}
	endpoint, err := b.endpoint.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("failed to read bucket endpoint: %w", err)
	}

	_, err = dag.Container().
		From("amazon/aws-cli:latest").
		WithSecretVariable("AWS_ACCESS_KEY_ID", b.accessKeyId).
		WithSecretVariable("AWS_SECRET_ACCESS_KEY", b.secretAccessKey).
		WithEnvVariable("AWS_DEFAULT_REGION", "auto").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{
			"aws", "s3", "sync", ".",
			"s3://" + path.Join(name, prefix),
			"--endpoint-url", endpoint,
			"--delete",
		}).
		Sync(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", prefix, err)
	}
	return nil
}

// Release builds versioned kiosk binaries with checksums and publishes them
// under the version prefix, and under "latest" unless disabled.
func (t *Kiosk) Release(
	ctx context.Context,

	// Version string (e.g., "v1.0.0")
	version string,

	// Git commit SHA
	commit string,

	// Bucket endpoint URL
	endpoint *dagger.Secret,

	// Bucket name
	bucketName *dagger.Secret,

	// Bucket access key ID
	accessKeyId *dagger.Secret,

	// Bucket secret access key
	secretAccessKey *dagger.Secret,

	// Also publish the build as "latest"
	// +optional
	// +default=true
	latest bool,
) (*dagger.Directory, error) {
	artifacts := t.withChecksums(t.BuildRelease(ctx, version, commit))

	target := &bucket{
		endpoint:        endpoint,
		name:            bucketName,
		accessKeyId:     accessKeyId,
		secretAccessKey: secretAccessKey,
	}

	prefixes := []string{version}
	if latest {
		prefixes = append(prefixes, "latest")
	}
	for _, prefix := range prefixes {
		if err := target.publish(ctx, artifacts, prefix); err != nil {
			return artifacts, err
		}
	}

	return artifacts, nil
}
