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
	"io"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"k8s.io/utils/ptr"
)

// fakeS3 keeps objects of a single bucket in memory. Listing is key based
// like in S3, so deleting objects while paginating does not skip any.
type fakeS3 struct {
	S3API

	pageSize int
	objects  map[string]bool
	calls    []string

	headBucketErrs []error
	createInput    *s3.CreateBucketInput
	publicAccess   *s3types.PublicAccessBlockConfiguration
	uploaded       map[string]string
}

func newFakeS3(keys ...string) *fakeS3 {
	f := &fakeS3{
		pageSize: 1000,
		objects:  map[string]bool{},
		uploaded: map[string]string{},
	}

	for _, key := range keys {
		f.objects[key] = true
	}

	return f
}

func (f *fakeS3) sortedKeys() []string {
	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func (f *fakeS3) CreateBucket(_ context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.calls = append(f.calls, "CreateBucket")
	f.createInput = params

	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.calls = append(f.calls, "HeadBucket")

	if len(f.headBucketErrs) > 0 {
		err := f.headBucketErrs[0]
		if len(f.headBucketErrs) > 1 {
			f.headBucketErrs = f.headBucketErrs[1:]
		}

		if err != nil {
			return nil, err
		}
	}

	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) PutPublicAccessBlock(_ context.Context, params *s3.PutPublicAccessBlockInput, _ ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error) {
	f.calls = append(f.calls, "PutPublicAccessBlock")
	f.publicAccess = params.PublicAccessBlockConfiguration

	return &s3.PutPublicAccessBlockOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.calls = append(f.calls, "ListObjectsV2")

	after := ptr.Deref(params.ContinuationToken, "")

	out := &s3.ListObjectsV2Output{IsTruncated: ptr.To(false)}
	for _, key := range f.sortedKeys() {
		if key <= after {
			continue
		}

		if len(out.Contents) == f.pageSize {
			out.IsTruncated = ptr.To(true)
			out.NextContinuationToken = out.Contents[len(out.Contents)-1].Key
			break
		}

		out.Contents = append(out.Contents, s3types.Object{Key: ptr.To(key)})
	}

	return out, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, params *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.calls = append(f.calls, fmt.Sprintf("DeleteObjects(%d)", len(params.Delete.Objects)))

	for _, object := range params.Delete.Objects {
		delete(f.objects, ptr.Deref(object.Key, ""))
	}

	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) DeleteBucket(_ context.Context, _ *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	f.calls = append(f.calls, "DeleteBucket")

	if len(f.objects) > 0 {
		return nil, &smithy.GenericAPIError{Code: "BucketNotEmpty", Message: "The bucket you tried to delete is not empty"}
	}

	return &s3.DeleteBucketOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls = append(f.calls, "PutObject")

	content, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.uploaded[ptr.Deref(params.Key, "")] = string(content)

	return &s3.PutObjectOutput{}, nil
}

type fakeIAM struct {
	IAMAPI

	calls    []string
	roles    map[string]*iam.CreateRoleInput
	policies map[string]string
	errs     map[string]error
}

func newFakeIAM() *fakeIAM {
	return &fakeIAM{
		roles:    map[string]*iam.CreateRoleInput{},
		policies: map[string]string{},
		errs:     map[string]error{},
	}
}

func (f *fakeIAM) call(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeIAM) CreateRole(_ context.Context, params *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	if err := f.call("CreateRole"); err != nil {
		return nil, err
	}

	f.roles[*params.RoleName] = params

	return &iam.CreateRoleOutput{}, nil
}

func (f *fakeIAM) GetRole(_ context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	if err := f.call("GetRole"); err != nil {
		return nil, err
	}

	return &iam.GetRoleOutput{}, nil
}

func (f *fakeIAM) PutRolePolicy(_ context.Context, params *iam.PutRolePolicyInput, _ ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	if err := f.call("PutRolePolicy"); err != nil {
		return nil, err
	}

	f.policies[*params.RoleName+"/"+*params.PolicyName] = *params.PolicyDocument

	return &iam.PutRolePolicyOutput{}, nil
}

func (f *fakeIAM) DeleteRolePolicy(_ context.Context, params *iam.DeleteRolePolicyInput, _ ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	if err := f.call("DeleteRolePolicy"); err != nil {
		return nil, err
	}

	delete(f.policies, *params.RoleName+"/"+*params.PolicyName)

	return &iam.DeleteRolePolicyOutput{}, nil
}

func (f *fakeIAM) DeleteRole(_ context.Context, params *iam.DeleteRoleInput, _ ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	if err := f.call("DeleteRole"); err != nil {
		return nil, err
	}

	delete(f.roles, *params.RoleName)

	return &iam.DeleteRoleOutput{}, nil
}

type fakeEC2 struct {
	EC2API

	createInput  *ec2.CreateVpcEndpointInput
	createOutput *ec2.CreateVpcEndpointOutput
	deleteOutput *ec2.DeleteVpcEndpointsOutput
	deleteErr    error
	deletedIDs   []string
}

func (f *fakeEC2) CreateVpcEndpoint(_ context.Context, params *ec2.CreateVpcEndpointInput, _ ...func(*ec2.Options)) (*ec2.CreateVpcEndpointOutput, error) {
	f.createInput = params
	return f.createOutput, nil
}

func (f *fakeEC2) DeleteVpcEndpoints(_ context.Context, params *ec2.DeleteVpcEndpointsInput, _ ...func(*ec2.Options)) (*ec2.DeleteVpcEndpointsOutput, error) {
	f.deletedIDs = append(f.deletedIDs, params.VpcEndpointIds...)

	if f.deleteErr != nil {
		return nil, f.deleteErr
	}

	if f.deleteOutput != nil {
		return f.deleteOutput, nil
	}

	return &ec2.DeleteVpcEndpointsOutput{}, nil
}

type fakeGlue struct {
	GlueAPI

	pageSize    int
	databases   map[string]*gluetypes.DatabaseInput
	tables      map[string]*glue.CreateTableInput
	getTables   int
	getDatabase []error
}

func newFakeGlue() *fakeGlue {
	return &fakeGlue{
		pageSize:  100,
		databases: map[string]*gluetypes.DatabaseInput{},
		tables:    map[string]*glue.CreateTableInput{},
	}
}

func (f *fakeGlue) CreateDatabase(_ context.Context, params *glue.CreateDatabaseInput, _ ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error) {
	f.databases[*params.DatabaseInput.Name] = params.DatabaseInput
	return &glue.CreateDatabaseOutput{}, nil
}

func (f *fakeGlue) GetDatabase(_ context.Context, params *glue.GetDatabaseInput, _ ...func(*glue.Options)) (*glue.GetDatabaseOutput, error) {
	if len(f.getDatabase) > 0 {
		err := f.getDatabase[0]
		f.getDatabase = f.getDatabase[1:]

		if err != nil {
			return nil, err
		}
	}

	if _, ok := f.databases[*params.Name]; !ok {
		return nil, &gluetypes.EntityNotFoundException{Message: ptr.To("Database not found")}
	}

	return &glue.GetDatabaseOutput{}, nil
}

func (f *fakeGlue) DeleteDatabase(_ context.Context, params *glue.DeleteDatabaseInput, _ ...func(*glue.Options)) (*glue.DeleteDatabaseOutput, error) {
	if _, ok := f.databases[*params.Name]; !ok {
		return nil, &gluetypes.EntityNotFoundException{Message: ptr.To("Database not found")}
	}

	delete(f.databases, *params.Name)

	return &glue.DeleteDatabaseOutput{}, nil
}

func (f *fakeGlue) CreateTable(_ context.Context, params *glue.CreateTableInput, _ ...func(*glue.Options)) (*glue.CreateTableOutput, error) {
	f.tables[*params.TableInput.Name] = params
	return &glue.CreateTableOutput{}, nil
}

func (f *fakeGlue) GetTables(_ context.Context, params *glue.GetTablesInput, _ ...func(*glue.Options)) (*glue.GetTablesOutput, error) {
	f.getTables++

	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	after := ptr.Deref(params.NextToken, "")

	out := &glue.GetTablesOutput{}
	for _, name := range names {
		if name <= after {
			continue
		}

		if len(out.TableList) == f.pageSize {
			out.NextToken = out.TableList[len(out.TableList)-1].Name
			break
		}

		out.TableList = append(out.TableList, gluetypes.Table{Name: ptr.To(name)})
	}

	return out, nil
}

func (f *fakeGlue) DeleteTable(_ context.Context, params *glue.DeleteTableInput, _ ...func(*glue.Options)) (*glue.DeleteTableOutput, error) {
	delete(f.tables, *params.Name)
	return &glue.DeleteTableOutput{}, nil
}

type fakeSTS struct {
	STSAPI

	err error
}

func (f *fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &sts.GetCallerIdentityOutput{
		Account: ptr.To("123456789012"),
		Arn:     ptr.To("arn:aws:iam::123456789012:user/lakehouse"),
	}, nil
}

type fakes struct {
	s3   *fakeS3
	iam  *fakeIAM
	ec2  *fakeEC2
	glue *fakeGlue
	sts  *fakeSTS
}

func newTestProvider(t *testing.T, region string) (*Provider, *fakes) {
	t.Helper()

	f := &fakes{
		s3:   newFakeS3(),
		iam:  newFakeIAM(),
		ec2:  &fakeEC2{},
		glue: newFakeGlue(),
		sts:  &fakeSTS{},
	}

	p := NewProvider(&ClientSet{
		S3:   f.s3,
		IAM:  f.iam,
		EC2:  f.ec2,
		Glue: f.glue,
		STS:  f.sts,
	}, region)

	p.waiterMinDelay = time.Millisecond

	return p, f
}
