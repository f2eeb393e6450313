// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutils provides test doubles shared across packages.
package testutils

import (
	"context"
)

// 🎭 FakeRunner records every argv it is asked to run and returns
// scripted results, standing in for execx.ExecRunner in tests.
type FakeRunner struct {
	// Calls holds each argv Run received, in order.
	Calls [][]string
	// Err is returned from every Run call when set.
	Err error
	// OnRun, when set, runs before returning so tests can simulate
	// side effects of the external tool (e.g. curl creating a file).
	OnRun func(argv []string) error
}

// 🏃 Run records argv and returns the scripted result.
func (f *FakeRunner) Run(ctx context.Context, argv []string) error {
	f.Calls = append(f.Calls, argv)
	if f.OnRun != nil {
		if err := f.OnRun(argv); err != nil {
			return err
		}
	}
	return f.Err
}

// 📞 LastCall returns the most recent argv, or nil.
func (f *FakeRunner) LastCall() []string {
	if len(f.Calls) == 0 {
		return nil
	}
	return f.Calls[len(f.Calls)-1]
}
