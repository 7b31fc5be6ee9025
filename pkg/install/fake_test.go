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
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/stedi-lakehouse/provisioner/pkg/config"
	"github.com/stedi-lakehouse/provisioner/pkg/handoff"
	"github.com/stedi-lakehouse/provisioner/pkg/schema"
	"github.com/stedi-lakehouse/provisioner/pkg/test"

	"k8s.io/utils/ptr"
)

const testEndpointID = "vpce-0123456789abcdef0"

// fakeCloud implements every resource interface and records the calls it
// receives in order.
type fakeCloud struct {
	ops  []string
	errs map[string]error

	// answers for DatabaseExists, the last one is repeated
	databaseExists []bool
	tables         []string
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{
		errs:           map[string]error{},
		databaseExists: []bool{true},
		tables:         []string{"customer_landing"},
	}
}

func (f *fakeCloud) record(op string) error {
	f.ops = append(f.ops, op)
	return f.errs[op]
}

func (f *fakeCloud) CreateBucket(_ context.Context, _ string) error {
	return f.record("CreateBucket")
}

func (f *fakeCloud) WaitForBucket(_ context.Context, _ logrus.FieldLogger, _ string) error {
	return f.record("WaitForBucket")
}

func (f *fakeCloud) BlockPublicAccess(_ context.Context, _ string) error {
	return f.record("BlockPublicAccess")
}

func (f *fakeCloud) DeleteBucket(_ context.Context, _ string) (int, error) {
	return 3, f.record("DeleteBucket")
}

func (f *fakeCloud) UploadFile(_ context.Context, _, key, _ string) error {
	return f.record("UploadFile:" + key)
}

func (f *fakeCloud) CreateRole(_ context.Context, _ string) error {
	return f.record("CreateRole")
}

func (f *fakeCloud) WaitForRole(_ context.Context, _ logrus.FieldLogger, _ string) error {
	return f.record("WaitForRole")
}

func (f *fakeCloud) AttachBucketAccessPolicy(_ context.Context, _, policyName, _ string) error {
	return f.record("PutRolePolicy:" + policyName)
}

func (f *fakeCloud) AttachGlueServicePolicy(_ context.Context, _, policyName string) error {
	return f.record("PutRolePolicy:" + policyName)
}

func (f *fakeCloud) DeleteRolePolicy(_ context.Context, _, policyName string) error {
	return f.record("DeleteRolePolicy:" + policyName)
}

func (f *fakeCloud) DeleteRole(_ context.Context, _ string) error {
	return f.record("DeleteRole")
}

func (f *fakeCloud) CreateGatewayEndpoint(_ context.Context, vpcID, routeTableID, serviceName string) (*ec2.CreateVpcEndpointOutput, error) {
	if err := f.record("CreateGatewayEndpoint"); err != nil {
		return nil, err
	}

	return &ec2.CreateVpcEndpointOutput{
		ClientToken: ptr.To("5f0e4f4c-9d0b-4c59-9d49-6e7d0b8f4a11"),
		VpcEndpoint: &ec2types.VpcEndpoint{
			VpcEndpointId:   ptr.To(testEndpointID),
			VpcEndpointType: ec2types.VpcEndpointTypeGateway,
			VpcId:           ptr.To(vpcID),
			ServiceName:     ptr.To(serviceName),
			RouteTableIds:   []string{routeTableID},
			State:           ec2types.StateAvailable,
		},
	}, nil
}

func (f *fakeCloud) DeleteEndpoint(_ context.Context, id string) error {
	return f.record("DeleteEndpoint:" + id)
}

func (f *fakeCloud) CreateDatabase(_ context.Context, _, _ string) error {
	return f.record("CreateDatabase")
}

func (f *fakeCloud) DatabaseExists(_ context.Context, _ string) (bool, error) {
	if err := f.record("DatabaseExists"); err != nil {
		return false, err
	}

	exists := f.databaseExists[0]
	if len(f.databaseExists) > 1 {
		f.databaseExists = f.databaseExists[1:]
	}

	return exists, nil
}

func (f *fakeCloud) DeleteDatabase(_ context.Context, _ string) error {
	return f.record("DeleteDatabase")
}

func (f *fakeCloud) CreateTable(_ context.Context, def schema.TableDefinition) error {
	return f.record("CreateTable:" + def.TableName)
}

func (f *fakeCloud) ListTables(_ context.Context, _ string) ([]string, error) {
	if err := f.record("ListTables"); err != nil {
		return nil, err
	}

	return f.tables, nil
}

func (f *fakeCloud) DeleteTable(_ context.Context, _, table string) error {
	return f.record("DeleteTable:" + table)
}

func testConfig() *config.Configuration {
	cfg := config.Defaults()
	cfg.AWS.Region = "us-west-2"
	cfg.S3.BucketName = "stedi-lakehouse"
	cfg.EC2.VPCID = "vpc-1"
	cfg.EC2.RouteTableID = "rtb-1"
	cfg.IAM.GlueRoleName = "stedi-glue-role"
	cfg.Glue.DatabaseName = "stedi_db"

	return &cfg
}

// testOptions returns options with every step disabled, backed by the given
// fake and a fresh temporary working tree.
func testOptions(t *testing.T, cloud *fakeCloud) (Options, *logtest.Hook) {
	t.Helper()

	dir := test.TempTree(t, map[string]string{
		"data/customer/landing/customer-1.json": `{"email":"a@example.com"}`,
		"schemas/customer/landing/schema.json":  `[{"Name":"email","Type":"string"}]`,
	})

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return Options{
		Config:               testConfig(),
		Storage:              cloud,
		Identity:             cloud,
		Network:              cloud,
		Catalog:              cloud,
		SchemasDirectory:     filepath.Join(dir, "schemas"),
		DataDirectory:        filepath.Join(dir, "data"),
		Handoff:              handoff.NewStore(filepath.Join(dir, handoff.DefaultFilename)),
		DatabasePollInterval: time.Millisecond,
		DatabasePollAttempts: 3,
		Logger:               logrus.NewEntry(logger),
	}, hook
}

// allStepFlags returns every combination of the six step flags.
func allStepFlags() []StepFlags {
	var combinations []StepFlags

	for i := 0; i < 64; i++ {
		combinations = append(combinations, StepFlags{
			Bucket:          i&1 != 0,
			IAM:             i&2 != 0,
			VPCEndpoint:     i&4 != 0,
			LoadData:        i&8 != 0,
			CatalogDatabase: i&16 != 0,
			CatalogTables:   i&32 != 0,
		})
	}

	return combinations
}

func flagsName(f StepFlags) string {
	return fmt.Sprintf("bucket=%t,iam=%t,vpce=%t,data=%t,db=%t,tables=%t",
		f.Bucket, f.IAM, f.VPCEndpoint, f.LoadData, f.CatalogDatabase, f.CatalogTables)
}
