/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package catalog

import (
	"encoding/json"
	"log"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

var cacheBucket = []byte("interfaces")

// Cache is a bolt-backed store of parsed interface descriptions,
// keyed by filename and invalidated by file size and mtime.  A miss
// or any cache trouble just means parsing again; the cache is never
// load-bearing.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens (creating if needed) a cache at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

type cacheEntry struct {
	Size       int64        `json:"size"`
	ModTimeNS  int64        `json:"modTimeNS"`
	Interfaces []*Interface `json:"interfaces"`
}

func (c *Cache) get(filename string) ([]*Interface, bool) {
	if c == nil {
		return nil, false
	}
	info, err := os.Stat(filename)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	err = c.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(cacheBucket).Get([]byte(filename))
		if bs == nil {
			return errCacheMiss
		}
		return json.Unmarshal(bs, &entry)
	})
	if err != nil {
		return nil, false
	}
	if entry.Size != info.Size() || entry.ModTimeNS != info.ModTime().UnixNano() {
		return nil, false
	}
	return entry.Interfaces, true
}

func (c *Cache) put(filename string, ifaces []*Interface) {
	if c == nil {
		return
	}
	info, err := os.Stat(filename)
	if err != nil {
		return
	}
	entry := cacheEntry{
		Size:       info.Size(),
		ModTimeNS:  info.ModTime().UnixNano(),
		Interfaces: ifaces,
	}
	bs, err := json.Marshal(&entry)
	if err != nil {
		return
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(filename), bs)
	}); err != nil {
		log.Printf("catalog cache write for %s failed: %v", filename, err)
	}
}

var errCacheMiss = os.ErrNotExist
