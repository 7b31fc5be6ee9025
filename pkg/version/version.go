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

package version

// These variables get fed by ldflags during compilation.
var (
	// gitHash is a magic variable containing the git commit hash
	// of the current (as in currently executing) installer.
	gitHash string

	// gitVersion is a magic variable containing the tag of the
	// current installer, e.g. "v1.2.0".
	gitVersion string
)

type Versions struct {
	GitVersion string
	GitCommit  string
}

func NewDefaultVersions() Versions {
	v := Versions{
		GitVersion: gitVersion,
		GitCommit:  gitHash,
	}

	if v.GitVersion == "" {
		v.GitVersion = "v0.0.0-dev"
	}

	return v
}

func NewFakeVersions() Versions {
	return Versions{
		GitVersion: "v0.0.0-test",
		GitCommit:  "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
	}
}
