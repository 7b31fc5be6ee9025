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
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"k8s.io/apimachinery/pkg/util/sets"
)

// notFoundCodes are the error codes the various services use to say that
// a resource does not exist.
var notFoundCodes = sets.New(
	"NoSuchEntity",                  // IAM
	"EntityNotFoundException",       // Glue
	"NoSuchBucket",                  // S3
	"NotFound",                      // S3 HeadBucket
	"InvalidVpcEndpointId.NotFound", // EC2
	"InvalidVpcEndpoint.NotFound",   // EC2 DeleteVpcEndpoints
)

// RemoteResourceError is returned when AWS rejected a request.
type RemoteResourceError struct {
	Operation string
	Resource  string
	Code      string
	Message   string

	err error
}

func (e *RemoteResourceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s: %s", e.Operation, e.Resource, e.Code, e.Message)
}

func (e *RemoteResourceError) Unwrap() error {
	return e.err
}

// wrapError turns API errors into RemoteResourceErrors and adds context to
// everything else.
func wrapError(operation, resource string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &RemoteResourceError{
			Operation: operation,
			Resource:  resource,
			Code:      apiErr.ErrorCode(),
			Message:   apiErr.ErrorMessage(),
			err:       err,
		}
	}

	return fmt.Errorf("failed to %s %s: %w", operation, resource, err)
}

// IsNotFound returns true if err says that the resource does not exist.
func IsNotFound(err error) bool {
	var remoteErr *RemoteResourceError
	if errors.As(err, &remoteErr) {
		return notFoundCodes.Has(remoteErr.Code)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return notFoundCodes.Has(apiErr.ErrorCode())
	}

	return false
}
