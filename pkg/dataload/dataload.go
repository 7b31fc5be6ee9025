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

// Package dataload uploads the sample data of all entities into the
// landing zone of the lakehouse bucket.
package dataload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LandingDirectory is the subdirectory of an entity holding its raw data.
const LandingDirectory = "landing"

type Uploader interface {
	UploadFile(ctx context.Context, bucket, key, filename string) error
}

// LoadLandingData uploads every regular file in <dataDir>/<entity>/landing
// to <entity>/landing/<filename> in the bucket and returns the number of
// uploaded files. Entities without a landing directory are skipped.
func LoadLandingData(ctx context.Context, log logrus.FieldLogger, uploader Uploader, dataDir, bucket string) (int, error) {
	entities, err := os.ReadDir(dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("data directory %s does not exist", dataDir)
		}

		return 0, fmt.Errorf("failed to read data directory: %w", err)
	}

	uploaded := 0

	for _, entity := range entities {
		if !entity.IsDir() {
			continue
		}

		landingDir := filepath.Join(dataDir, entity.Name(), LandingDirectory)

		files, err := os.ReadDir(landingDir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Infof("Skipping %s: no %s/ directory found.", entity.Name(), LandingDirectory)
				continue
			}

			return uploaded, fmt.Errorf("failed to read %s: %w", landingDir, err)
		}

		for _, file := range files {
			if !file.Type().IsRegular() {
				continue
			}

			filename := filepath.Join(landingDir, file.Name())
			key := path.Join(entity.Name(), LandingDirectory, file.Name())

			if err := uploader.UploadFile(ctx, bucket, key, filename); err != nil {
				return uploaded, err
			}

			log.Debugf("Uploaded %s to s3://%s/%s", filename, bucket, key)
			uploaded++
		}
	}

	return uploaded, nil
}
