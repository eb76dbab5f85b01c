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

package main

import (
	"bytes"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Comcast/skillgen/tools"

	"github.com/gorilla/websocket"
)

// Preview serves a live HTML report of the behavior.  Input files are
// polled for changes; each change re-runs the pipeline and pushes a
// reload event to connected websocket clients.
//
// This is a development convenience: generation errors are logged and
// the last good report stays up, instead of the fail-fast exit the
// batch mode does.
func Preview(addr string, conf *Config) error {

	var (
		mu   sync.Mutex
		page []byte
	)

	render := func() error {
		model, _, err := Run(conf)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := tools.RenderSkillPage(model, &buf, []string{}); err != nil {
			return err
		}
		buf.WriteString(reloadScript)
		mu.Lock()
		page = buf.Bytes()
		mu.Unlock()
		return nil
	}

	if err := render(); err != nil {
		return err
	}

	conns := sync.Map{}

	notify := func() {
		conns.Range(func(k, v interface{}) bool {
			c := v.(chan bool)
			select {
			case c <- true:
			default:
				log.Printf("%v reload notification blocked", k)
			}
			return true
		})
	}

	go func() {
		stamps := make(map[string]time.Time)
		files := append([]string{conf.Behavior}, conf.Interfaces...)
		for {
			time.Sleep(time.Second)
			changed := false
			for _, filename := range files {
				info, err := os.Stat(filename)
				if err != nil {
					continue
				}
				if stamp, have := stamps[filename]; !have || !stamp.Equal(info.ModTime()) {
					stamps[filename] = info.ModTime()
					if have {
						changed = true
					}
				}
			}
			if changed {
				if err := render(); err != nil {
					log.Printf("preview regeneration error: %v", err)
					continue
				}
				notify()
			}
		}
	}()

	var upgrader = websocket.Upgrader{} // use default options

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		reload := make(chan bool, 4)
		id := c.RemoteAddr().String()
		conns.Store(id, reload)
		defer conns.Delete(id)

		for range reload {
			if err := c.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
				log.Println("reload write:", err)
				return
			}
		}
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		bs := page
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(bs)
	})

	log.Printf("preview at http://%s/", addr)

	return http.ListenAndServe(addr, nil)
}

const reloadScript = `
<script>
(function () {
    var ws = new WebSocket("ws://" + location.host + "/ws");
    ws.onmessage = function () { location.reload(); };
})();
</script>
`
