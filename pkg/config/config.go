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

// Package config contains the static configuration of a lakehouse
// installation: which bucket, role, policies, network and catalog the
// installer works with.
package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/yaml"
)

const (
	DefaultGlueRolePolicyName  = "GlueGeneralAccessPolicy"
	DefaultS3RolePolicyName    = "GlueS3AccessPolicy"
	DefaultDatabaseDescription = "Catalog database for the lakehouse landing, trusted and curated zones."

	regionEnvName = "AWS_REGION"
)

type Configuration struct {
	AWS  AWSConfiguration  `json:"aws"`
	S3   S3Configuration   `json:"s3"`
	EC2  EC2Configuration  `json:"ec2"`
	IAM  IAMConfiguration  `json:"iam"`
	Glue GlueConfiguration `json:"glue"`
}

type AWSConfiguration struct {
	// Region is the AWS region all resources are created in.
	Region string `json:"region"`
	// Endpoint optionally overrides the service endpoint of every client,
	// which is mostly useful when testing against localstack.
	Endpoint string `json:"endpoint,omitempty"`
	// Profile optionally selects a named profile from the shared config files.
	Profile string `json:"profile,omitempty"`
}

type S3Configuration struct {
	BucketName string `json:"bucketName"`
}

type EC2Configuration struct {
	VPCID        string `json:"vpcID"`
	RouteTableID string `json:"routeTableID"`
}

type IAMConfiguration struct {
	GlueRoleName       string `json:"glueRoleName"`
	GlueRolePolicyName string `json:"glueRolePolicyName"`
	S3RolePolicyName   string `json:"s3RolePolicyName"`
}

type GlueConfiguration struct {
	DatabaseName        string `json:"databaseName"`
	DatabaseDescription string `json:"databaseDescription,omitempty"`
}

// Defaults returns the values used for every field not set in the
// configuration file.
func Defaults() Configuration {
	return Configuration{
		IAM: IAMConfiguration{
			GlueRolePolicyName: DefaultGlueRolePolicyName,
			S3RolePolicyName:   DefaultS3RolePolicyName,
		},
		Glue: GlueConfiguration{
			DatabaseDescription: DefaultDatabaseDescription,
		},
	}
}

// Load reads the configuration file, rejects unknown keys and fills in
// defaults for all fields left empty.
func Load(filename string) (*Configuration, error) {
	if filename == "" {
		return nil, errors.New("no configuration file given")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return Parse(content)
}

func Parse(content []byte) (*Configuration, error) {
	cfg := &Configuration{}
	if err := yaml.UnmarshalStrict(content, cfg); err != nil {
		return nil, fmt.Errorf("not a valid configuration: %w", err)
	}

	if err := mergo.Merge(cfg, Defaults()); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if cfg.AWS.Region == "" {
		cfg.AWS.Region = os.Getenv(regionEnvName)
	}

	return cfg, nil
}

// Validate checks that everything required by the installer is set.
// The VPC and route table are only needed when a VPC endpoint is going
// to be created.
func (c *Configuration) Validate(requireNetwork bool) error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{key: "aws.region", value: c.AWS.Region},
		{key: "s3.bucketName", value: c.S3.BucketName},
		{key: "iam.glueRoleName", value: c.IAM.GlueRoleName},
		{key: "iam.glueRolePolicyName", value: c.IAM.GlueRolePolicyName},
		{key: "iam.s3RolePolicyName", value: c.IAM.S3RolePolicyName},
		{key: "glue.databaseName", value: c.Glue.DatabaseName},
	}

	if requireNetwork {
		required = append(required,
			struct {
				key   string
				value string
			}{key: "ec2.vpcID", value: c.EC2.VPCID},
			struct {
				key   string
				value string
			}{key: "ec2.routeTableID", value: c.EC2.RouteTableID},
		)
	}

	for _, field := range required {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%s must be set", field.key))
		}
	}

	if c.IAM.GlueRolePolicyName != "" && c.IAM.GlueRolePolicyName == c.IAM.S3RolePolicyName {
		errs = append(errs, errors.New("iam.glueRolePolicyName and iam.s3RolePolicyName must differ"))
	}

	return utilerrors.NewAggregate(errs)
}
