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

	"github.com/aws/aws-sdk-go-v2/service/sts"

	"k8s.io/utils/ptr"
)

type Identity struct {
	Account string
	ARN     string
}

// CallerIdentity returns who the configured credentials belong to. It is
// a cheap way to find out if the credentials work at all.
func (p *Provider) CallerIdentity(ctx context.Context) (*Identity, error) {
	out, err := p.clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, wrapError("get", "caller identity", err)
	}

	return &Identity{
		Account: ptr.Deref(out.Account, ""),
		ARN:     ptr.Deref(out.Arn, ""),
	}, nil
}
