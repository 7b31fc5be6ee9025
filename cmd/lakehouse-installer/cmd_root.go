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


package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stedi-lakehouse/provisioner/pkg/config"
	"github.com/stedi-lakehouse/provisioner/pkg/handoff"
	"github.com/stedi-lakehouse/provisioner/pkg/install"
	"github.com/stedi-lakehouse/provisioner/pkg/log"
	"github.com/stedi-lakehouse/provisioner/pkg/metrics"
	"github.com/stedi-lakehouse/provisioner/pkg/util/wait"
	"github.com/stedi-lakehouse/provisioner/pkg/version"
)

const (
	defaultConfigFile = "dwh.yaml"
	configEnvName     = "LAKEHOUSE_CONFIG"
)

type RootOptions struct {
	Log log.Options

	Setup    bool
	Teardown bool
	Steps    install.StepFlags

	Config           string
	SchemasDirectory string
	DataDirectory    string
	StateFile        string
	MetricsFile      string

	DatabasePollInterval time.Duration
	DatabasePollAttempts int
}

func RootCommand(logger *logrus.Logger, versions version.Versions, newProvider providerFactory) *cobra.Command {
	opt := RootOptions{
		Log:                  log.NewDefaultOptions(),
		Steps:                install.DefaultStepFlags(),
		Config:               defaultConfigFile,
		SchemasDirectory:     "schemas",
		DataDirectory:        "data",
		StateFile:            handoff.DefaultFilename,
		DatabasePollInterval: wait.DefaultPollInterval,
		DatabasePollAttempts: wait.DefaultPollAttempts,
	}

	if env := os.Getenv(configEnvName); env != "" {
		opt.Config = env
	}

	cmd := &cobra.Command{
		Use:           "lakehouse-installer [--setup | --teardown]",
		Short:         "Creates or removes the AWS resources of the STEDI lakehouse",
		Long:          "Creates (--setup) or removes (--teardown) the S3 bucket, IAM role, VPC endpoint and Glue catalog of the STEDI lakehouse.",
		Args:          cobra.NoArgs,
		RunE:          RootFunc(logger, versions, newProvider, &opt),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.BoolVar(&opt.Setup, "setup", false, "create all enabled resources")
	flags.BoolVar(&opt.Teardown, "teardown", false, "delete all enabled resources")

	flags.BoolVar(&opt.Steps.Bucket, "bucket", opt.Steps.Bucket, "include the S3 bucket")
	flags.BoolVar(&opt.Steps.IAM, "iam", opt.Steps.IAM, "include the IAM role and its policies")
	flags.BoolVar(&opt.Steps.VPCEndpoint, "vpc-endpoint", opt.Steps.VPCEndpoint, "include the S3 gateway VPC endpoint")
	flags.BoolVar(&opt.Steps.LoadData, "load-data", opt.Steps.LoadData, "upload the sample data (setup only)")
	flags.BoolVar(&opt.Steps.CatalogDatabase, "catalog-database", opt.Steps.CatalogDatabase, "include the Glue catalog database")
	flags.BoolVar(&opt.Steps.CatalogTables, "catalog-tables", opt.Steps.CatalogTables, "include the Glue catalog tables")

	flags.StringVar(&opt.Config, "config", opt.Config, "path to the installer configuration file (env "+configEnvName+")")
	flags.StringVar(&opt.SchemasDirectory, "schemas-dir", opt.SchemasDirectory, "directory containing <entity>/<zone>/schema.json files")
	flags.StringVar(&opt.DataDirectory, "data-dir", opt.DataDirectory, "directory containing <entity>/landing/ sample data")
	flags.StringVar(&opt.StateFile, "state-file", opt.StateFile, "file recording the created VPC endpoint")
	flags.StringVar(&opt.MetricsFile, "metrics-file", "", "optionally write Prometheus metrics to this file")
	flags.DurationVar(&opt.DatabasePollInterval, "database-poll-interval", opt.DatabasePollInterval, "time between checks for the catalog database")
	flags.IntVar(&opt.DatabasePollAttempts, "database-poll-attempts", opt.DatabasePollAttempts, "maximum number of checks for the catalog database")

	opt.Log.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(VersionCommand(versions))

	return cmd
}

func RootFunc(logger *logrus.Logger, versions version.Versions, newProvider providerFactory, opt *RootOptions) cobraFuncE {
	return handleErrors(logger, func(cmd *cobra.Command, args []string) error {
		if err := opt.Log.Validate(); err != nil {
			return &UsageError{Message: err.Error()}
		}
		opt.Log.Apply(logger)

		if opt.Setup && opt.Teardown {
			return &UsageError{Message: "--setup and --teardown cannot be used together"}
		}

		if !opt.Setup && !opt.Teardown {
			logger.Warn("Neither --setup nor --teardown given, nothing to do.")
			return cmd.Help()
		}

		mode := install.ModeSetup
		if opt.Teardown {
			mode = install.ModeTeardown
		}

		entry := logger.WithFields(logrus.Fields{
			"version": versions.GitVersion,
			"mode":    mode,
		})
		entry.Info("🚀 Initializing installer…")

		cfg, err := config.Load(opt.Config)
		if err != nil {
			return err
		}

		if err := cfg.Validate(opt.Setup && opt.Steps.VPCEndpoint); err != nil {
			return err
		}

		ctx := cmd.Context()

		provider, err := newProvider(ctx, cfg)
		if err != nil {
			return err
		}

		identity, err := provider.CallerIdentity(ctx)
		if err != nil {
			return fmt.Errorf("preflight check failed: %w", err)
		}
		entry.Infof("Operating in account %s (%s) as %s.", identity.Account, cfg.AWS.Region, identity.ARN)

		recorder := metrics.NewRecorder()

		installOpt := install.Options{
			Config:               cfg,
			Steps:                opt.Steps,
			Storage:              provider,
			Identity:             provider,
			Network:              provider,
			Catalog:              provider,
			SchemasDirectory:     opt.SchemasDirectory,
			DataDirectory:        opt.DataDirectory,
			Handoff:              handoff.NewStore(opt.StateFile),
			DatabasePollInterval: opt.DatabasePollInterval,
			DatabasePollAttempts: opt.DatabasePollAttempts,
			Metrics:              recorder,
			Logger:               logrus.NewEntry(logger),
		}

		if mode == install.ModeSetup {
			err = install.Setup(ctx, installOpt)
		} else {
			err = install.Teardown(ctx, installOpt)
		}

		if opt.MetricsFile != "" {
			if werr := recorder.WriteToTextfile(opt.MetricsFile); werr != nil {
				logger.Warnf("Failed to write metrics: %v", werr)
			}
		}

		if err != nil {
			return err
		}

		entry.Info("🎉 All done.")

		return nil
	})
}
