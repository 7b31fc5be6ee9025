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


// Package install provisions and removes the AWS resources of a lakehouse.
// Setup creates them in dependency order and stops at the first failure;
// teardown removes them in reverse order and keeps going on failures.
package install

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/sirupsen/logrus"

	"github.com/stedi-lakehouse/provisioner/pkg/config"
	"github.com/stedi-lakehouse/provisioner/pkg/dataload"
	"github.com/stedi-lakehouse/provisioner/pkg/handoff"
	"github.com/stedi-lakehouse/provisioner/pkg/metrics"
	"github.com/stedi-lakehouse/provisioner/pkg/provider/cloud/aws"
	"github.com/stedi-lakehouse/provisioner/pkg/schema"
)

type Mode string

const (
	ModeSetup    Mode = "setup"
	ModeTeardown Mode = "teardown"
)

type Step string

const (
	StepBucket          Step = "bucket"
	StepIAM             Step = "iam"
	StepVPCEndpoint     Step = "vpc-endpoint"
	StepLoadData        Step = "load-data"
	StepCatalogDatabase Step = "catalog-database"
	StepCatalogTables   Step = "catalog-tables"
)

// StepFlags enables or disables each step. The same flags gate setup and
// teardown.
type StepFlags struct {
	Bucket          bool
	IAM             bool
	VPCEndpoint     bool
	LoadData        bool
	CatalogDatabase bool
	CatalogTables   bool
}

// DefaultStepFlags enables everything except the VPC endpoint.
func DefaultStepFlags() StepFlags {
	return StepFlags{
		Bucket:          true,
		IAM:             true,
		LoadData:        true,
		CatalogDatabase: true,
		CatalogTables:   true,
	}
}

type Storage interface {
	dataload.Uploader

	CreateBucket(ctx context.Context, name string) error
	WaitForBucket(ctx context.Context, log logrus.FieldLogger, name string) error
	BlockPublicAccess(ctx context.Context, name string) error
	DeleteBucket(ctx context.Context, name string) (int, error)
}

type Identity interface {
	CreateRole(ctx context.Context, name string) error
	WaitForRole(ctx context.Context, log logrus.FieldLogger, name string) error
	AttachBucketAccessPolicy(ctx context.Context, role, policyName, bucket string) error
	AttachGlueServicePolicy(ctx context.Context, role, policyName string) error
	DeleteRolePolicy(ctx context.Context, role, policyName string) error
	DeleteRole(ctx context.Context, name string) error
}

type Network interface {
	CreateGatewayEndpoint(ctx context.Context, vpcID, routeTableID, serviceName string) (*ec2.CreateVpcEndpointOutput, error)
	DeleteEndpoint(ctx context.Context, id string) error
}

type Catalog interface {
	CreateDatabase(ctx context.Context, name, description string) error
	DatabaseExists(ctx context.Context, name string) (bool, error)
	DeleteDatabase(ctx context.Context, name string) error
	CreateTable(ctx context.Context, def schema.TableDefinition) error
	ListTables(ctx context.Context, database string) ([]string, error)
	DeleteTable(ctx context.Context, database, table string) error
}

var (
	_ Storage  = &aws.Provider{}
	_ Identity = &aws.Provider{}
	_ Network  = &aws.Provider{}
	_ Catalog  = &aws.Provider{}
)

type Options struct {
	Config *config.Configuration
	Steps  StepFlags

	Storage  Storage
	Identity Identity
	Network  Network
	Catalog  Catalog

	SchemasDirectory string
	DataDirectory    string
	Handoff          *handoff.Store

	DatabasePollInterval time.Duration
	DatabasePollAttempts int

	Metrics *metrics.Recorder
	Logger  *logrus.Entry
}

func (o *Options) handoffStore() *handoff.Store {
	if o.Handoff == nil {
		return handoff.NewStore(handoff.DefaultFilename)
	}

	return o.Handoff
}

type step struct {
	name    Step
	title   string
	enabled bool
	run     func(ctx context.Context, opt *Options, logger *logrus.Entry) error
}

// runSteps executes the enabled steps in order. With stopOnError the first
// failure ends the run, otherwise all failures are collected.
func runSteps(ctx context.Context, opt *Options, mode Mode, steps []step, stopOnError bool) []error {
	var errs []error

	for _, s := range steps {
		if !s.enabled {
			opt.Logger.Infof("⭕ Skipping %s.", s.title)
			opt.Metrics.ObserveStep(string(mode), string(s.name), metrics.ResultSkipped, 0)
			continue
		}

		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		started := time.Now()
		err := s.run(ctx, opt, opt.Logger.WithField("step", s.name))
		elapsed := time.Since(started)

		if err != nil {
			opt.Metrics.ObserveStep(string(mode), string(s.name), metrics.ResultFailure, elapsed)
			errs = append(errs, fmt.Errorf("%s step failed: %w", s.name, err))

			if stopOnError {
				break
			}

			opt.Logger.Errorf("❌ Step %s failed: %v", s.name, err)
			continue
		}

		opt.Metrics.ObserveStep(string(mode), string(s.name), metrics.ResultSuccess, elapsed)
	}

	opt.Metrics.ObserveRun(string(mode), time.Now())

	return errs
}
