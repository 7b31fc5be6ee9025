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
	"os"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/stedi-lakehouse/provisioner/pkg/util/wait"

	"k8s.io/utils/ptr"
)

// us-east-1 is the only region that must not be sent as location constraint.
const defaultS3Region = "us-east-1"

func bucketResource(name string) string {
	return fmt.Sprintf("bucket %q", name)
}

func (p *Provider) CreateBucket(ctx context.Context, name string) error {
	input := &s3.CreateBucketInput{
		Bucket: ptr.To(name),
	}

	if p.region != defaultS3Region {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(p.region),
		}
	}

	_, err := p.clients.S3.CreateBucket(ctx, input)

	return wrapError("create", bucketResource(name), err)
}

// WaitForBucket blocks until S3 reports the bucket as existing.
func (p *Provider) WaitForBucket(ctx context.Context, log logrus.FieldLogger, name string) error {
	return wait.Native(ctx, log, bucketResource(name), "exist", func(ctx context.Context) error {
		waiter := s3.NewBucketExistsWaiter(p.clients.S3, func(o *s3.BucketExistsWaiterOptions) {
			o.MinDelay = p.waiterMinDelay
		})

		return waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: ptr.To(name)}, p.bucketWaitTimeout)
	})
}

// BlockPublicAccess denies every kind of public access to the bucket.
func (p *Provider) BlockPublicAccess(ctx context.Context, name string) error {
	_, err := p.clients.S3.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: ptr.To(name),
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       ptr.To(true),
			IgnorePublicAcls:      ptr.To(true),
			BlockPublicPolicy:     ptr.To(true),
			RestrictPublicBuckets: ptr.To(true),
		},
	})

	return wrapError("block public access to", bucketResource(name), err)
}

// EmptyBucket deletes every object in the bucket, one listing page at a
// time, and returns the number of deleted objects.
func (p *Provider) EmptyBucket(ctx context.Context, name string) (int, error) {
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(p.clients.S3, &s3.ListObjectsV2Input{
		Bucket: ptr.To(name),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, wrapError("list objects in", bucketResource(name), err)
		}

		if len(page.Contents) == 0 {
			continue
		}

		objects := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
		for _, object := range page.Contents {
			objects = append(objects, s3types.ObjectIdentifier{Key: object.Key})
		}

		out, err := p.clients.S3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: ptr.To(name),
			Delete: &s3types.Delete{
				Objects: objects,
				Quiet:   ptr.To(true),
			},
		})
		if err != nil {
			return deleted, wrapError("delete objects in", bucketResource(name), err)
		}

		if len(out.Errors) > 0 {
			first := out.Errors[0]

			return deleted, &RemoteResourceError{
				Operation: "delete objects in",
				Resource:  bucketResource(name),
				Code:      ptr.Deref(first.Code, ""),
				Message:   fmt.Sprintf("%d object(s) could not be deleted, first was %q: %s", len(out.Errors), ptr.Deref(first.Key, ""), ptr.Deref(first.Message, "")),
			}
		}

		deleted += len(objects)
	}

	return deleted, nil
}

// DeleteBucket empties the bucket and then removes it. It returns the
// number of objects that had to be deleted.
func (p *Provider) DeleteBucket(ctx context.Context, name string) (int, error) {
	deleted, err := p.EmptyBucket(ctx, name)
	if err != nil {
		return deleted, err
	}

	_, err = p.clients.S3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: ptr.To(name),
	})

	return deleted, wrapError("delete", bucketResource(name), err)
}

// UploadFile stores the local file at key in the bucket.
func (p *Provider) UploadFile(ctx context.Context, bucket, key, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	uploader := manager.NewUploader(p.clients.S3)

	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: ptr.To(bucket),
		Key:    ptr.To(key),
		Body:   f,
	})

	return wrapError("upload "+filename+" to", fmt.Sprintf("s3://%s/%s", bucket, key), err)
}
