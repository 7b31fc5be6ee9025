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


package install

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stedi-lakehouse/provisioner/pkg/dataload"
	"github.com/stedi-lakehouse/provisioner/pkg/handoff"
	"github.com/stedi-lakehouse/provisioner/pkg/log"
	"github.com/stedi-lakehouse/provisioner/pkg/provider/cloud/aws"
	"github.com/stedi-lakehouse/provisioner/pkg/schema"
	"github.com/stedi-lakehouse/provisioner/pkg/util/wait"
)

// Setup creates all enabled resources. It returns the first error and does
// not attempt to roll back what has already been created.
func Setup(ctx context.Context, opt Options) error {
	steps := []step{
		{name: StepBucket, title: "bucket creation", enabled: opt.Steps.Bucket, run: setupBucket},
		{name: StepIAM, title: "IAM role creation", enabled: opt.Steps.IAM, run: setupIAM},
		{name: StepVPCEndpoint, title: "VPC endpoint creation", enabled: opt.Steps.VPCEndpoint, run: setupVPCEndpoint},
		{name: StepLoadData, title: "sample data upload", enabled: opt.Steps.LoadData, run: setupLoadData},
		{name: StepCatalogDatabase, title: "catalog database creation", enabled: opt.Steps.CatalogDatabase, run: setupCatalogDatabase},
		{name: StepCatalogTables, title: "catalog table creation", enabled: opt.Steps.CatalogTables, run: setupCatalogTables},
	}

	if errs := runSteps(ctx, &opt, ModeSetup, steps, true); len(errs) > 0 {
		return errs[0]
	}

	return nil
}

func setupBucket(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	name := opt.Config.S3.BucketName

	logger.Infof("📦 Creating bucket %s…", name)
	sublogger := log.Prefix(logger, "   ")

	if err := opt.Storage.CreateBucket(ctx, name); err != nil {
		return err
	}

	if err := opt.Storage.WaitForBucket(ctx, sublogger, name); err != nil {
		return err
	}

	sublogger.Info("Blocking public access…")
	if err := opt.Storage.BlockPublicAccess(ctx, name); err != nil {
		return err
	}

	logger.Info("✅ Success.")

	return nil
}

func setupIAM(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	role := opt.Config.IAM.GlueRoleName

	logger.Infof("📦 Creating IAM role %s…", role)
	sublogger := log.Prefix(logger, "   ")

	if err := opt.Identity.CreateRole(ctx, role); err != nil {
		return err
	}

	if err := opt.Identity.WaitForRole(ctx, sublogger, role); err != nil {
		return err
	}

	sublogger.Infof("Attaching policy %s…", opt.Config.IAM.S3RolePolicyName)
	if err := opt.Identity.AttachBucketAccessPolicy(ctx, role, opt.Config.IAM.S3RolePolicyName, opt.Config.S3.BucketName); err != nil {
		return err
	}

	sublogger.Infof("Attaching policy %s…", opt.Config.IAM.GlueRolePolicyName)
	if err := opt.Identity.AttachGlueServicePolicy(ctx, role, opt.Config.IAM.GlueRolePolicyName); err != nil {
		return err
	}

	logger.Info("✅ Success.")

	return nil
}

func setupVPCEndpoint(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	serviceName := aws.S3ServiceName(opt.Config.AWS.Region)

	logger.Infof("📦 Creating VPC endpoint for %s in %s…", serviceName, opt.Config.EC2.VPCID)
	sublogger := log.Prefix(logger, "   ")

	out, err := opt.Network.CreateGatewayEndpoint(ctx, opt.Config.EC2.VPCID, opt.Config.EC2.RouteTableID, serviceName)
	if err != nil {
		return err
	}

	record := handoff.NewRecord(out)
	store := opt.handoffStore()

	if err := store.Save(record); err != nil {
		return fmt.Errorf("endpoint %s was created, but could not be recorded: %w", record.EndpointID(), err)
	}

	sublogger.Infof("Recorded endpoint %s in %s.", record.EndpointID(), store.Path())
	logger.Info("✅ Success.")

	return nil
}

func setupLoadData(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	logger.Infof("📦 Uploading sample data from %s…", opt.DataDirectory)
	sublogger := log.Prefix(logger, "   ")

	uploaded, err := dataload.LoadLandingData(ctx, sublogger, opt.Storage, opt.DataDirectory, opt.Config.S3.BucketName)
	if err != nil {
		return fmt.Errorf("failed to upload sample data: %w", err)
	}

	sublogger.Infof("Uploaded %d file(s).", uploaded)
	logger.Info("✅ Success.")

	return nil
}

func setupCatalogDatabase(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	name := opt.Config.Glue.DatabaseName

	logger.Infof("📦 Creating catalog database %s…", name)
	sublogger := log.Prefix(logger, "   ")

	if err := opt.Catalog.CreateDatabase(ctx, name, opt.Config.Glue.DatabaseDescription); err != nil {
		return err
	}

	err := wait.ForResource(ctx, sublogger, fmt.Sprintf("catalog database %q", name), opt.DatabasePollInterval, opt.DatabasePollAttempts, func(ctx context.Context) (bool, error) {
		return opt.Catalog.DatabaseExists(ctx, name)
	})
	if err != nil {
		return err
	}

	logger.Info("✅ Success.")

	return nil
}

func setupCatalogTables(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	logger.Infof("📦 Creating catalog tables from %s…", opt.SchemasDirectory)
	sublogger := log.Prefix(logger, "   ")

	definitions, err := schema.Load(sublogger, opt.SchemasDirectory, opt.Config.Glue.DatabaseName, opt.Config.S3.BucketName)
	if err != nil {
		return fmt.Errorf("failed to load table schemas: %w", err)
	}

	for _, def := range definitions {
		sublogger.Infof("Creating table %s at %s…", def.TableName, def.Location())

		if err := opt.Catalog.CreateTable(ctx, def); err != nil {
			return err
		}
	}

	logger.Info("✅ Success.")

	return nil
}
