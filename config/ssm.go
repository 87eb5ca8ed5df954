package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterSource lists parameters below a path. It is satisfied by *ssm.Client.
type ParameterSource interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMSource builds an SSM client from the default AWS credential chain.
func NewSSMSource(ctx context.Context, region string) (*ssm.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// OverlaySSM copies every parameter under parameterPath into config, keyed by
// the last path segment (/portfolio/prod/RESEND_API_KEY -> RESEND_API_KEY).
// Keys already present in the environment are left untouched.
func OverlaySSM(ctx context.Context, config map[string]string, source ParameterSource, parameterPath string) (int, error) {
	var (
		nextToken *string
		applied   int
	)

	for {
		out, err := source.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(parameterPath),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return applied, fmt.Errorf("failed to read SSM parameters under %s: %w", parameterPath, err)
		}

		for _, param := range out.Parameters {
			name := strings.TrimSpace(path.Base(aws.ToString(param.Name)))
			if name == "" || name == "/" {
				continue
			}
			if existing, ok := config[name]; ok && existing != "" {
				continue
			}
			config[name] = aws.ToString(param.Value)
			applied++
		}

		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		nextToken = out.NextToken
	}

	log.Info().Str("path", parameterPath).Int("applied", applied).Msg("Loaded SSM parameters")
	return applied, nil
}
