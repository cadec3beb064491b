/*
 * Copyright 2024 TecnoMovil
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mapping

import (
	"context"
	"sync"

	"gitlab.com/tecnomovil/imei-docfinder/lib/cache"
)

// NewCachedLoader wraps a Loader so that repeated Snapshot calls within the
// store's time-to-live reuse the held snapshot without touching the source.
func NewCachedLoader(loader Loader, store cache.Store) *CachedLoader {
	return &CachedLoader{loader: loader, store: store}
}

type CachedLoader struct {
	loader Loader
	store  cache.Store
	mut    sync.Mutex
}

// Snapshot returns the cached snapshot, reloading it first when expired. The
// reload path is serialized: concurrent callers that all see an expired store
// queue on the mutex and every one but the first is answered from the store.
// A load failure leaves the store untouched, so the next caller retries.
func (c *CachedLoader) Snapshot(ctx context.Context) (Snapshot, error) {
	if snapshot, ok := c.store.Get(); ok {
		return snapshot, nil
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	if snapshot, ok := c.store.Get(); ok {
		return snapshot, nil
	}

	snapshot, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.store.Set(snapshot)
	return snapshot, nil
}
