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

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/sirupsen/logrus"

	"github.com/stedi-lakehouse/provisioner/pkg/util/wait"

	"k8s.io/utils/ptr"
)

const glueRoleDescription = "IAM role for AWS Glue service to access AWS resources."

func roleResource(name string) string {
	return fmt.Sprintf("role %q", name)
}

func rolePolicyResource(role, policy string) string {
	return fmt.Sprintf("policy %q of role %q", policy, role)
}

// CreateRole creates a role that can be assumed by the Glue service.
func (p *Provider) CreateRole(ctx context.Context, name string) error {
	assumeRolePolicy, err := getAssumeRolePolicy()
	if err != nil {
		return err
	}

	_, err = p.clients.IAM.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 ptr.To(name),
		AssumeRolePolicyDocument: ptr.To(assumeRolePolicy),
		Description:              ptr.To(glueRoleDescription),
	})

	return wrapError("create", roleResource(name), err)
}

// WaitForRole blocks until IAM reports the role as existing.
func (p *Provider) WaitForRole(ctx context.Context, log logrus.FieldLogger, name string) error {
	return wait.Native(ctx, log, roleResource(name), "exist", func(ctx context.Context) error {
		waiter := iam.NewRoleExistsWaiter(p.clients.IAM, func(o *iam.RoleExistsWaiterOptions) {
			o.MinDelay = p.waiterMinDelay
		})

		return waiter.Wait(ctx, &iam.GetRoleInput{RoleName: ptr.To(name)}, p.roleWaitTimeout)
	})
}

// AttachBucketAccessPolicy grants the role access to all objects in the bucket.
func (p *Provider) AttachBucketAccessPolicy(ctx context.Context, role, policyName, bucket string) error {
	document, err := getBucketAccessPolicy(bucket)
	if err != nil {
		return err
	}

	return p.putRolePolicy(ctx, role, policyName, document)
}

// AttachGlueServicePolicy grants the role everything Glue itself needs.
func (p *Provider) AttachGlueServicePolicy(ctx context.Context, role, policyName string) error {
	document, err := getGlueServicePolicy()
	if err != nil {
		return err
	}

	return p.putRolePolicy(ctx, role, policyName, document)
}

func (p *Provider) putRolePolicy(ctx context.Context, role, policyName, document string) error {
	_, err := p.clients.IAM.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       ptr.To(role),
		PolicyName:     ptr.To(policyName),
		PolicyDocument: ptr.To(document),
	})

	return wrapError("attach", rolePolicyResource(role, policyName), err)
}

func (p *Provider) DeleteRolePolicy(ctx context.Context, role, policyName string) error {
	_, err := p.clients.IAM.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
		RoleName:   ptr.To(role),
		PolicyName: ptr.To(policyName),
	})

	return wrapError("delete", rolePolicyResource(role, policyName), err)
}

func (p *Provider) DeleteRole(ctx context.Context, name string) error {
	_, err := p.clients.IAM.DeleteRole(ctx, &iam.DeleteRoleInput{
		RoleName: ptr.To(name),
	})

	return wrapError("delete", roleResource(name), err)
}
