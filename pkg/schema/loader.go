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

// Package schema turns a directory tree of column definition files into
// catalog table definitions.
//
// The expected layout is <base>/<entity>/<subentity>/schema.json, where
// each file contains a list of {"Name": ..., "Type": ...} objects.
package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"sigs.k8s.io/yaml"
)

// Load reads all column definitions below baseDir and returns one table
// definition per subentity, sorted by entity and subentity name.
// Subentities without a schema file are logged and skipped.
func Load(log logrus.FieldLogger, baseDir, database, bucket string) ([]TableDefinition, error) {
	entities, err := subdirectories(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	var definitions []TableDefinition

	for _, entity := range entities {
		entityDir := filepath.Join(baseDir, entity)

		subentities, err := subdirectories(entityDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read entity directory: %w", err)
		}

		for _, subentity := range subentities {
			columns, err := LoadColumns(filepath.Join(entityDir, subentity))
			if err != nil {
				var missing *MissingSchemaError
				if errors.As(err, &missing) {
					log.WithField("table", entity+"_"+subentity).Warnf("Skipping table: %v", err)
					continue
				}

				return nil, err
			}

			definitions = append(definitions, NewTableDefinition(database, bucket, entity, subentity, columns))
		}
	}

	return definitions, nil
}

// LoadColumns parses the schema file in dir. Column order is preserved.
func LoadColumns(dir string) ([]Column, error) {
	filename := filepath.Join(dir, FileName)

	content, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingSchemaError{Directory: dir}
		}

		return nil, err
	}

	var columns []Column
	if err := yaml.UnmarshalStrict(content, &columns); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	for i, column := range columns {
		if column.Name == "" || column.Type == "" {
			return nil, fmt.Errorf("column %d in %s must have a name and a type", i, filename)
		}
	}

	return columns, nil
}

// subdirectories returns the sorted names of all directories in dir.
func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}
