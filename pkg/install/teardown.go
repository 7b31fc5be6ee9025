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
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stedi-lakehouse/provisioner/pkg/handoff"
	"github.com/stedi-lakehouse/provisioner/pkg/log"
	"github.com/stedi-lakehouse/provisioner/pkg/provider/cloud/aws"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Teardown removes all enabled resources in reverse dependency order. A
// failing step is logged and the remaining steps still run; all failures
// are returned as one aggregate error.
func Teardown(ctx context.Context, opt Options) error {
	steps := []step{
		{name: StepVPCEndpoint, title: "VPC endpoint removal", enabled: opt.Steps.VPCEndpoint, run: teardownVPCEndpoint},
		{name: StepIAM, title: "IAM role removal", enabled: opt.Steps.IAM, run: teardownIAM},
		{name: StepCatalogTables, title: "catalog table removal", enabled: opt.Steps.CatalogTables, run: teardownCatalogTables},
		{name: StepCatalogDatabase, title: "catalog database removal", enabled: opt.Steps.CatalogDatabase, run: teardownCatalogDatabase},
		{name: StepBucket, title: "bucket removal", enabled: opt.Steps.Bucket, run: teardownBucket},
	}

	return utilerrors.NewAggregate(runSteps(ctx, &opt, ModeTeardown, steps, false))
}

// ignoreNotFound treats resources that are already gone as removed.
func ignoreNotFound(logger logrus.FieldLogger, err error, resource string) error {
	if aws.IsNotFound(err) {
		logger.Infof("%s does not exist anymore.", resource)
		return nil
	}

	return err
}

func teardownVPCEndpoint(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	store := opt.handoffStore()

	record, err := store.Load()
	if err != nil {
		var missing *handoff.MissingLocalStateError
		if errors.As(err, &missing) {
			logger.Warnf("⭕ Skipping VPC endpoint removal: %v.", err)
			return nil
		}

		return err
	}

	id := record.EndpointID()

	logger.Infof("🗑️ Deleting VPC endpoint %s…", id)
	sublogger := log.Prefix(logger, "   ")

	if err := ignoreNotFound(sublogger, opt.Network.DeleteEndpoint(ctx, id), "VPC endpoint "+id); err != nil {
		return err
	}

	if err := store.Remove(); err != nil {
		return err
	}

	sublogger.Infof("Removed %s.", store.Path())
	logger.Info("✅ Success.")

	return nil
}

func teardownIAM(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	role := opt.Config.IAM.GlueRoleName

	logger.Infof("🗑️ Deleting IAM role %s…", role)
	sublogger := log.Prefix(logger, "   ")

	// A policy that cannot be removed makes the role deletion fail, which
	// is the error reported for this step.
	for _, policy := range []string{opt.Config.IAM.S3RolePolicyName, opt.Config.IAM.GlueRolePolicyName} {
		sublogger.Infof("Deleting policy %s…", policy)

		err := opt.Identity.DeleteRolePolicy(ctx, role, policy)
		if err := ignoreNotFound(sublogger, err, "Policy "+policy); err != nil {
			sublogger.Warnf("Failed to delete policy %s: %v", policy, err)
		}
	}

	if err := ignoreNotFound(sublogger, opt.Identity.DeleteRole(ctx, role), "Role "+role); err != nil {
		return err
	}

	logger.Info("✅ Success.")

	return nil
}

func teardownCatalogTables(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	database := opt.Config.Glue.DatabaseName

	logger.Infof("🗑️ Deleting all tables in catalog database %s…", database)
	sublogger := log.Prefix(logger, "   ")

	tables, err := opt.Catalog.ListTables(ctx, database)
	if err != nil {
		return ignoreNotFound(sublogger, err, "Catalog database "+database)
	}

	var errs []error
	for _, table := range tables {
		sublogger.Infof("Deleting table %s…", table)

		err := opt.Catalog.DeleteTable(ctx, database, table)
		if err := ignoreNotFound(sublogger, err, "Table "+table); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to delete %d of %d table(s): %w", len(errs), len(tables), utilerrors.NewAggregate(errs))
	}

	sublogger.Infof("Deleted %d table(s).", len(tables))
	logger.Info("✅ Success.")

	return nil
}

func teardownCatalogDatabase(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	name := opt.Config.Glue.DatabaseName

	logger.Infof("🗑️ Deleting catalog database %s…", name)
	sublogger := log.Prefix(logger, "   ")

	if err := ignoreNotFound(sublogger, opt.Catalog.DeleteDatabase(ctx, name), "Catalog database "+name); err != nil {
		return err
	}

	logger.Info("✅ Success.")

	return nil
}

func teardownBucket(ctx context.Context, opt *Options, logger *logrus.Entry) error {
	name := opt.Config.S3.BucketName

	logger.Infof("🗑️ Deleting bucket %s…", name)
	sublogger := log.Prefix(logger, "   ")

	deleted, err := opt.Storage.DeleteBucket(ctx, name)
	if deleted > 0 {
		sublogger.Infof("Deleted %d object(s).", deleted)
	}

	if err := ignoreNotFound(sublogger, err, "Bucket "+name); err != nil {
		return err
	}

	logger.Info("✅ Success.")

	return nil
}
