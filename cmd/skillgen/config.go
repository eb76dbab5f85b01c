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
	"io/ioutil"

	"github.com/jsccast/yaml"
)

// Config is the file form of the command-line flags.  Flags given on
// the command line win.
type Config struct {
	Behavior   string   `yaml:"behavior"`
	Interfaces []string `yaml:"interfaces"`
	OutDir     string   `yaml:"outDir"`

	HeaderTemplate string `yaml:"headerTemplate"`
	SourceTemplate string `yaml:"sourceTemplate"`

	WaitRetries    int `yaml:"waitRetries"`
	WaitTimeoutSec int `yaml:"waitTimeoutSec"`

	// Cache is the filename for the bolt-backed catalog parse
	// cache.  Empty means no cache.
	Cache string `yaml:"cache"`
}

// ReadConfig reads a YAML Config.
func ReadConfig(filename string) (*Config, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var conf Config
	if err := yaml.Unmarshal(bs, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}
