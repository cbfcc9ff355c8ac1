// Copyright 2022-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Two-tier cache for computed campaign results: a local LRU in front of
// an optional shared redis. Values are lz4 compressed before storage.

var ErrCacheMiss = errors.New("key not found in cache")

var rdb *redis.Client
var localCache *lru.Cache

func SetupCache() {
	var err error
	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not parse redis URL")
		}
		rdb = redis.NewClient(opt)
	}

	localCache, err = lru.New(viper.GetInt("cache.local_size"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not create LRU cache")
	}
}

func cacheTTL() time.Duration {
	return time.Duration(viper.GetInt("cache.ttl")) * time.Second
}

func CacheSet(ctx context.Context, key string, raw []byte) error {
	compressed, err := Compress(raw)
	if err != nil {
		return err
	}
	localCache.Add(key, compressed)

	if rdb != nil {
		return rdb.Set(ctx, key, compressed, cacheTTL()).Err()
	}
	return nil
}

func CacheGet(ctx context.Context, key string) ([]byte, error) {
	if val, ok := localCache.Get(key); ok {
		return Decompress(val.([]byte))
	}

	if rdb != nil {
		val, err := rdb.GetEx(ctx, key, cacheTTL()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrCacheMiss
			}
			return nil, err
		}
		localCache.Add(key, val)
		return Decompress(val)
	}

	return nil, ErrCacheMiss
}
