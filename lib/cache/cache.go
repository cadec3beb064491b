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

package cache

// Type selects the snapshot store backend.
type Type string

const (
	Local Type = "local"
	Redis Type = "redis"
)

// Store holds the most recent IMEI->URL snapshot. Get reports ok=false when
// no snapshot is held or the held one has passed its time-to-live; Set
// replaces the snapshot wholesale and restarts the clock.
type Store interface {
	Get() (map[string]string, bool)
	Set(snapshot map[string]string)
}
