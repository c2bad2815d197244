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

package registry

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Request is one call to Execute, for use with ExecuteBatch.
type Request struct {
	ToolCallID string
	Action     string
	Params     map[string]any
}

// ExecuteBatch runs each request concurrently against the registry and
// returns one Envelope per request in the same order, the way
// workflowagent's parallel agent fans sub-agents out and joins their
// results. Status/list requests are naturally concurrency-safe since
// they read without the lock; start/checkpoint/continue/close requests
// still serialize correctly because each goes through
// store.FileStore.WithLock individually.
//
// ExecuteBatch itself never fails: a request that errors reports
// status "error" in its own Envelope rather than aborting its siblings.
// The returned error is only non-nil if the context is canceled before
// every request completes.
func (r *Registry) ExecuteBatch(ctx context.Context, requests []Request) ([]Envelope, error) {
	envelopes := make([]Envelope, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			envelopes[i] = r.Execute(gctx, req.ToolCallID, req.Action, req.Params)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return envelopes, err
	}
	return envelopes, nil
}
