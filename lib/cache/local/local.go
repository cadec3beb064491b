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

package local

import (
	"sync"
	"time"

	"gitlab.com/tecnomovil/imei-docfinder/lib/cache"
)

func New(ttl time.Duration) cache.Store {
	return &store{
		ttl: ttl,
		mut: &sync.RWMutex{},
		now: time.Now,
	}
}

type store struct {
	snapshot map[string]string
	loadedAt time.Time
	ttl      time.Duration
	mut      *sync.RWMutex
	now      func() time.Time
}

func (s *store) Get() (map[string]string, bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	if s.snapshot == nil || s.now().Sub(s.loadedAt) > s.ttl {
		return nil, false
	}

	return s.snapshot, true
}

func (s *store) Set(snapshot map[string]string) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.snapshot = snapshot
	s.loadedAt = s.now()
}
