// Package secrets retrieves signing-key material from an external secret
// store. Values are never cached here: callers that need always-current key
// material fetch on every use.
package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Retriever fetches a secret value by identifier.
type Retriever interface {
	GetSecret(ctx context.Context, id string) (string, error)
}

// SecretsManagerAPI is the subset of the Secrets Manager client used here,
// extracted for fake injection in tests.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager retrieves secrets from AWS Secrets Manager.
type Manager struct {
	client SecretsManagerAPI
}

// NewManager creates a Manager with a regional Secrets Manager client using
// the default credential chain.
func NewManager(ctx context.Context, region string) (*Manager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Manager{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewManagerWithClient creates a Manager around an existing client.
func NewManagerWithClient(client SecretsManagerAPI) *Manager {
	return &Manager{client: client}
}

// GetSecret returns the string value of the secret named by id.
func (m *Manager) GetSecret(ctx context.Context, id string) (string, error) {
	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", id, err)
	}

	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return string(out.SecretBinary), nil
	}
	return "", fmt.Errorf("secret %q has no value", id)
}
