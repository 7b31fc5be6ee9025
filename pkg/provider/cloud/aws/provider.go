/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package aws contains thin wrappers around the AWS services used for a
// lakehouse installation. Every method issues the minimal number of API
// calls and reports rejected requests as RemoteResourceErrors.
package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/stedi-lakehouse/provisioner/pkg/config"
)

const (
	// Environment variables for static credentials, only honoured together
	// with a custom endpoint (e.g. localstack).
	accessKeyIDEnvName     = "LAKEHOUSE_AWS_ACCESS_KEY_ID"
	secretAccessKeyEnvName = "LAKEHOUSE_AWS_SECRET_ACCESS_KEY"

	defaultBucketWaitTimeout = 20 * time.Second
	defaultRoleWaitTimeout   = 2 * time.Minute
)

type ClientSet struct {
	S3   S3API
	IAM  IAMAPI
	EC2  EC2API
	Glue GlueAPI
	STS  STSAPI
}

// GetClientSet builds clients for all services from the default credential
// chain. A non-empty endpoint is used as base endpoint for all services.
func GetClientSet(ctx context.Context, cfg config.AWSConfiguration, getenv func(string) string) (*ClientSet, error) {
	if cfg.Region == "" {
		return nil, errors.New("no AWS region configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	if cfg.Endpoint != "" && getenv != nil {
		accessKeyID := getenv(accessKeyIDEnvName)
		secretAccessKey := getenv(secretAccessKeyEnvName)

		if accessKeyID != "" && secretAccessKey != "" {
			creds := credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")
			opts = append(opts, awsconfig.WithCredentialsProvider(creds))
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &ClientSet{
		S3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// custom endpoints rarely support virtual-hosted buckets
			o.UsePathStyle = cfg.Endpoint != ""
		}),
		IAM:  iam.NewFromConfig(awsCfg),
		EC2:  ec2.NewFromConfig(awsCfg),
		Glue: glue.NewFromConfig(awsCfg),
		STS:  sts.NewFromConfig(awsCfg),
	}, nil
}

// Provider performs all resource operations of the installer.
type Provider struct {
	clients *ClientSet
	region  string

	bucketWaitTimeout time.Duration
	roleWaitTimeout   time.Duration
	waiterMinDelay    time.Duration
}

func NewProvider(clients *ClientSet, region string) *Provider {
	return &Provider{
		clients:           clients,
		region:            region,
		bucketWaitTimeout: defaultBucketWaitTimeout,
		roleWaitTimeout:   defaultRoleWaitTimeout,
		waiterMinDelay:    2 * time.Second,
	}
}

func (p *Provider) Region() string {
	return p.region
}
