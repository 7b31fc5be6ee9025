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

package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/stedi-lakehouse/provisioner/pkg/schema"

	"k8s.io/utils/ptr"
)

const (
	externalTableType = "EXTERNAL_TABLE"

	createdByParameter = "created_by"
	createdByValue     = "automated-script"
)

func databaseResource(name string) string {
	return fmt.Sprintf("database %q", name)
}

func tableResource(database, table string) string {
	return fmt.Sprintf("table %q in database %q", table, database)
}

func (p *Provider) CreateDatabase(ctx context.Context, name, description string) error {
	_, err := p.clients.Glue.CreateDatabase(ctx, &glue.CreateDatabaseInput{
		DatabaseInput: &gluetypes.DatabaseInput{
			Name:        ptr.To(name),
			Description: ptr.To(description),
			Parameters: map[string]string{
				createdByParameter: createdByValue,
			},
		},
	})

	return wrapError("create", databaseResource(name), err)
}

// DatabaseExists returns false if Glue does not know the database (yet).
// Every other problem is returned as an error.
func (p *Provider) DatabaseExists(ctx context.Context, name string) (bool, error) {
	_, err := p.clients.Glue.GetDatabase(ctx, &glue.GetDatabaseInput{
		Name: ptr.To(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return false, wrapError("get", databaseResource(name), err)
	}

	return true, nil
}

func (p *Provider) DeleteDatabase(ctx context.Context, name string) error {
	_, err := p.clients.Glue.DeleteDatabase(ctx, &glue.DeleteDatabaseInput{
		Name: ptr.To(name),
	})

	return wrapError("delete", databaseResource(name), err)
}

// CreateTable creates an external table whose data is stored in S3.
func (p *Provider) CreateTable(ctx context.Context, def schema.TableDefinition) error {
	columns := make([]gluetypes.Column, 0, len(def.Columns))
	for _, column := range def.Columns {
		columns = append(columns, gluetypes.Column{
			Name: ptr.To(column.Name),
			Type: ptr.To(column.Type),
		})
	}

	_, err := p.clients.Glue.CreateTable(ctx, &glue.CreateTableInput{
		DatabaseName: ptr.To(def.DatabaseName),
		TableInput: &gluetypes.TableInput{
			Name:      ptr.To(def.TableName),
			TableType: ptr.To(externalTableType),
			Parameters: map[string]string{
				"classification": def.Classification,
			},
			StorageDescriptor: &gluetypes.StorageDescriptor{
				Columns:      columns,
				Location:     ptr.To(def.Location()),
				InputFormat:  ptr.To(def.InputFormat),
				OutputFormat: ptr.To(def.OutputFormat),
				SerdeInfo: &gluetypes.SerDeInfo{
					SerializationLibrary: ptr.To(def.SerdeLibrary),
					Parameters: map[string]string{
						"classification": def.Classification,
					},
				},
			},
		},
	})

	return wrapError("create", tableResource(def.DatabaseName, def.TableName), err)
}

// ListTables returns the names of all tables in the database, following
// every result page.
func (p *Provider) ListTables(ctx context.Context, database string) ([]string, error) {
	var names []string

	paginator := glue.NewGetTablesPaginator(p.clients.Glue, &glue.GetTablesInput{
		DatabaseName: ptr.To(database),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapError("list tables in", databaseResource(database), err)
		}

		for _, table := range page.TableList {
			names = append(names, ptr.Deref(table.Name, ""))
		}
	}

	return names, nil
}

func (p *Provider) DeleteTable(ctx context.Context, database, table string) error {
	_, err := p.clients.Glue.DeleteTable(ctx, &glue.DeleteTableInput{
		DatabaseName: ptr.To(database),
		Name:         ptr.To(table),
	})

	return wrapError("delete", tableResource(database, table), err)
}
