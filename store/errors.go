// Copyright 2025 Kadir Pekel
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

package store

import (
	"errors"
	"fmt"
)

// ErrLockTimeout categorizes LockTimeoutError.
var ErrLockTimeout = errors.New("timeout acquiring research loop registry lock")

// LockTimeoutError is returned when the exclusive lock could not be
// acquired within the configured timeout.
type LockTimeoutError struct {
	Path string
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timeout acquiring research loop registry lock: %s", e.Path)
}

func (e *LockTimeoutError) Unwrap() error { return ErrLockTimeout }
