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

// Package handoff persists the VPC endpoint created during setup, so that
// a later teardown run can remove it again.
package handoff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"
)

const (
	APIVersion = "lakehouse.stedi.io/v1"
	Kind       = "VpcEndpointHandoff"

	DefaultFilename = "vpc_endpoint.yaml"
)

// Record is the on-disk representation of a created VPC endpoint.
type Record struct {
	APIVersion  string                `json:"apiVersion"`
	Kind        string                `json:"kind"`
	ClientToken string                `json:"clientToken,omitempty"`
	VpcEndpoint *ec2types.VpcEndpoint `json:"vpcEndpoint"`
}

// NewRecord wraps the full response of a CreateVpcEndpoint call.
func NewRecord(out *ec2.CreateVpcEndpointOutput) *Record {
	r := &Record{
		APIVersion: APIVersion,
		Kind:       Kind,
	}

	if out != nil {
		r.ClientToken = ptr.Deref(out.ClientToken, "")
		r.VpcEndpoint = out.VpcEndpoint
	}

	return r
}

// EndpointID returns the ID of the recorded endpoint or an empty string.
func (r *Record) EndpointID() string {
	if r == nil || r.VpcEndpoint == nil {
		return ""
	}

	return ptr.Deref(r.VpcEndpoint.VpcEndpointId, "")
}

// MissingLocalStateError means there is no usable handoff record. Stale
// or corrupt files are reported the same way as absent ones.
type MissingLocalStateError struct {
	Path   string
	Reason string
}

func (e *MissingLocalStateError) Error() string {
	return fmt.Sprintf("no usable VPC endpoint record at %s: %s", e.Path, e.Reason)
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFilename
	}

	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Save writes the record. The file is replaced atomically so that an
// interrupted run never leaves a truncated record behind.
func (s *Store) Save(r *Record) error {
	if r.EndpointID() == "" {
		return errors.New("refusing to save a record without an endpoint ID")
	}

	content, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync record: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close record: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to move record into place: %w", err)
	}

	return nil
}

// Load reads the record. Every reason for not being able to use it
// results in a MissingLocalStateError.
func (s *Store) Load() (*Record, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file does not exist"
		}

		return nil, &MissingLocalStateError{Path: s.path, Reason: reason}
	}

	r := &Record{}
	if err := yaml.Unmarshal(content, r); err != nil {
		return nil, &MissingLocalStateError{Path: s.path, Reason: fmt.Sprintf("file is corrupt: %v", err)}
	}

	if r.APIVersion != APIVersion || r.Kind != Kind {
		return nil, &MissingLocalStateError{
			Path:   s.path,
			Reason: fmt.Sprintf("unsupported record %s/%s, expected %s/%s", r.APIVersion, r.Kind, APIVersion, Kind),
		}
	}

	if r.EndpointID() == "" {
		return nil, &MissingLocalStateError{Path: s.path, Reason: "record contains no endpoint ID"}
	}

	return r, nil
}

// Remove deletes the record. A record that does not exist is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
