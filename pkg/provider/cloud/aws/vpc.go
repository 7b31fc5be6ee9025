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

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"

	"k8s.io/utils/ptr"
)

// S3ServiceName returns the name of the S3 endpoint service in the region.
func S3ServiceName(region string) string {
	return fmt.Sprintf("com.amazonaws.%s.s3", region)
}

func endpointResource(id string) string {
	return fmt.Sprintf("VPC endpoint %q", id)
}

// CreateGatewayEndpoint creates a gateway endpoint for the service in the
// VPC and adds routes to it to the route table. The full response is
// returned so that it can be persisted.
func (p *Provider) CreateGatewayEndpoint(ctx context.Context, vpcID, routeTableID, serviceName string) (*ec2.CreateVpcEndpointOutput, error) {
	out, err := p.clients.EC2.CreateVpcEndpoint(ctx, &ec2.CreateVpcEndpointInput{
		VpcEndpointType: ec2types.VpcEndpointTypeGateway,
		VpcId:           ptr.To(vpcID),
		ServiceName:     ptr.To(serviceName),
		RouteTableIds:   []string{routeTableID},
		ClientToken:     ptr.To(uuid.NewString()),
	})
	if err != nil {
		return nil, wrapError("create", fmt.Sprintf("VPC endpoint for %s in %s", serviceName, vpcID), err)
	}

	if out.VpcEndpoint == nil || ptr.Deref(out.VpcEndpoint.VpcEndpointId, "") == "" {
		return nil, fmt.Errorf("AWS returned no ID for the VPC endpoint for %s in %s", serviceName, vpcID)
	}

	return out, nil
}

// DeleteEndpoint removes the endpoint. EC2 reports per-endpoint failures
// in the response instead of as an error, these are turned into
// RemoteResourceErrors.
func (p *Provider) DeleteEndpoint(ctx context.Context, id string) error {
	out, err := p.clients.EC2.DeleteVpcEndpoints(ctx, &ec2.DeleteVpcEndpointsInput{
		VpcEndpointIds: []string{id},
	})
	if err != nil {
		return wrapError("delete", endpointResource(id), err)
	}

	for _, item := range out.Unsuccessful {
		if item.Error == nil {
			continue
		}

		return &RemoteResourceError{
			Operation: "delete",
			Resource:  endpointResource(id),
			Code:      ptr.Deref(item.Error.Code, ""),
			Message:   ptr.Deref(item.Error.Message, ""),
		}
	}

	return nil
}
