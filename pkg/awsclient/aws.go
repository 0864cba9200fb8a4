package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"go.uber.org/zap"
)

// Options holds region, optional static credentials and an optional endpoint override.
type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
}

// Load builds an aws.Config shared by every service client. Static credentials are
// used only when both keys are set; otherwise the default chain (Lambda role, profile) applies.
func Load(ctx context.Context, opts Options, logger *zap.Logger) (aws.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.SecretAccessKey, "",
		)))
		logger.Info("AWS clients using static credentials", zap.String("region", opts.Region))
	} else {
		logger.Debug("AWS clients using default credential chain", zap.String("region", opts.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if opts.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(opts.EndpointURL)
	}
	return awsCfg, nil
}
