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

// Package remote holds snapshot stores backed by an external service, for
// deployments where several replicas should share one snapshot and its
// expiry. The snapshot is stored json-encoded under a single key and the
// time-to-live is enforced server-side by redis.
package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/rs/zerolog/log"
)

type RedisConfig struct {
	Host string
	Port int
	Key  string
}

func NewRedisClient(conf RedisConfig, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port)}),
		key: conf.Key,
		ttl: ttl,
	}
}

type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (r *RedisStore) Ready() bool {
	return r.client.Ping().Err() == nil
}

func (r *RedisStore) Get() (map[string]string, bool) {
	b, err := r.client.Get(r.key).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		// treat an unreachable redis as a cache miss - the loader will run
		log.Warn().Err(err).Msg("redis snapshot read failed")
		return nil, false
	}

	var snapshot map[string]string
	if err := json.Unmarshal(b, &snapshot); err != nil {
		log.Warn().Err(err).Msg("redis snapshot corrupt, discarding")
		return nil, false
	}

	return snapshot, true
}

func (r *RedisStore) Set(snapshot map[string]string) {
	b, err := json.Marshal(snapshot)
	if err != nil {
		log.Warn().Err(err).Msg("could not encode snapshot")
		return
	}

	if err := r.client.Set(r.key, b, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("redis snapshot write failed")
	}
}
