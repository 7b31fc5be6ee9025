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
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stedi-lakehouse/provisioner/pkg/config"
	"github.com/stedi-lakehouse/provisioner/pkg/provider/cloud/aws"
)

type cobraFuncE func(cmd *cobra.Command, args []string) error

func handleErrors(logger *logrus.Logger, action cobraFuncE) cobraFuncE {
	return func(cmd *cobra.Command, args []string) error {
		err := action(cmd, args)
		if err != nil {
			logger.Errorf("❌ Operation failed: %v.", err)
		}

		return err
	}
}

// UsageError is returned for invalid command line invocations, before
// anything is done.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// providerFactory creates the client for all remote resources.
type providerFactory func(ctx context.Context, cfg *config.Configuration) (*aws.Provider, error)

func newAWSProvider(ctx context.Context, cfg *config.Configuration) (*aws.Provider, error) {
	clients, err := aws.GetClientSet(ctx, cfg.AWS, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS clients: %w", err)
	}

	return aws.NewProvider(clients, cfg.AWS.Region), nil
}
