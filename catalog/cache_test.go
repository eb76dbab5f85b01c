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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Comcast/skillgen/core"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srv := writeInterfaceFile(t, dir,
		"blackboard_interfaces/srv/GetIntBlackboard.srv", getIntSrv)

	cache, err := OpenCache(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	// First load parses and populates the cache.
	c1, err := LoadWithCache(cache, srv)
	if err != nil {
		t.Fatal(err)
	}

	if _, hit := cache.get(srv); !hit {
		t.Fatal("wanted a cache hit after load")
	}

	// Second load should serve from the cache and agree.
	c2, err := LoadWithCache(cache, srv)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []*Catalog{c1, c2} {
		typ, found := c.LookupType("blackboard_interfaces/GetIntBlackboard", core.Response, "value")
		if !found || typ != core.TypeInt32 {
			t.Fatalf("value: %v %v", typ, found)
		}
	}
}

func TestCacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	srv := writeInterfaceFile(t, dir, "pkg/srv/Thing.srv", "---\nint32 x\n")

	cache, err := OpenCache(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if _, err := LoadWithCache(cache, srv); err != nil {
		t.Fatal(err)
	}

	// Rewriting the file (different size, different mtime) must
	// invalidate the entry.
	if err := ioutil.WriteFile(srv, []byte("---\nbool x\nbool y\n"), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(srv, future, future); err != nil {
		t.Fatal(err)
	}

	if _, hit := cache.get(srv); hit {
		t.Fatal("stale entry should miss")
	}

	c, err := LoadWithCache(cache, srv)
	if err != nil {
		t.Fatal(err)
	}
	if typ, found := c.LookupType("pkg/Thing", core.Response, "x"); !found || typ != core.TypeBool {
		t.Fatalf("x after rewrite: %v %v", typ, found)
	}
}

func TestNilCache(t *testing.T) {
	var cache *Cache
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}
	if _, hit := cache.get("anything"); hit {
		t.Fatal("nil cache shouldn't hit")
	}
	cache.put("anything", nil) // shouldn't panic
}
