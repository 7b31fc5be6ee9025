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

package schema

import (
	"fmt"
)

const (
	DefaultClassification = "json"
	DefaultSerdeLibrary   = "org.openx.data.jsonserde.JsonSerDe"
	DefaultInputFormat    = "org.apache.hadoop.mapred.TextInputFormat"
	DefaultOutputFormat   = "org.apache.hadoop.hive.ql.io.HiveIgnoreKeyTextOutputFormat"

	// FileName is the name of the column definition file expected in
	// every subentity directory.
	FileName = "schema.json"
)

// Column is a single column of a catalog table. The JSON keys match the
// ones used by the Glue API, so schema files can be copied from it.
type Column struct {
	Name string `json:"Name"`
	Type string `json:"Type"`
}

// TableDefinition describes a catalog table whose data lives below
// Prefix in the given bucket.
type TableDefinition struct {
	DatabaseName   string
	TableName      string
	BucketName     string
	Prefix         string
	Columns        []Column
	Classification string
	SerdeLibrary   string
	InputFormat    string
	OutputFormat   string
}

// NewTableDefinition returns the definition for the table backing
// entity/subentity, using JSON data with the OpenX SerDe.
func NewTableDefinition(database, bucket, entity, subentity string, columns []Column) TableDefinition {
	return TableDefinition{
		DatabaseName:   database,
		TableName:      entity + "_" + subentity,
		BucketName:     bucket,
		Prefix:         entity + "/" + subentity + "/",
		Columns:        columns,
		Classification: DefaultClassification,
		SerdeLibrary:   DefaultSerdeLibrary,
		InputFormat:    DefaultInputFormat,
		OutputFormat:   DefaultOutputFormat,
	}
}

// Location is the S3 URL of the table's data.
func (d TableDefinition) Location() string {
	return fmt.Sprintf("s3://%s/%s", d.BucketName, d.Prefix)
}

// MissingSchemaError is reported when a subentity directory has no
// column definition file.
type MissingSchemaError struct {
	Directory string
}

func (e *MissingSchemaError) Error() string {
	return fmt.Sprintf("no %s found in %s", FileName, e.Directory)
}
