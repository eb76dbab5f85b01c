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

// skillgen turns a behavior description (an SCXML-style state
// machine) and a set of interface descriptions into the C++ source of
// a runnable skill node.
//
// Example:
//
//	skillgen -b navigate.scxml -i blackboard_interfaces/srv/GetIntBlackboard.srv -o gen/
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/Comcast/skillgen/catalog"
	"github.com/Comcast/skillgen/core"
	"github.com/Comcast/skillgen/gen"
	"github.com/Comcast/skillgen/tools"
)

type stringsFlag []string

func (f *stringsFlag) String() string { return fmt.Sprintf("%v", *f) }

func (f *stringsFlag) Set(s string) error {
	*f = append(*f, s)
	return nil
}

func main() {

	var (
		behaviorFile = flag.String("b", "", "behavior description (XML)")
		outDir       = flag.String("o", ".", "output directory")
		configFile   = flag.String("c", "", "config file (YAML); flags win")

		headerTemplate = flag.String("th", "", "header template file (built-in if empty)")
		sourceTemplate = flag.String("ts", "", "source template file (built-in if empty)")

		waitRetries = flag.Int("retries", 0, "availability wait attempts in generated code")
		waitTimeout = flag.Int("timeout", 0, "per-attempt wait timeout (seconds) in generated code")

		cacheFile = flag.String("d", "", "catalog cache filename (bolt)")

		mermaidFile = flag.String("mermaid", "", "also write a Mermaid diagram here")
		htmlFile    = flag.String("html", "", "also write an HTML report here")
		dumpFile    = flag.String("dump", "", "also write the resolved model (YAML) here")
		previewAddr = flag.String("preview", "", "serve a live HTML report at this address")
	)

	var interfaceFiles stringsFlag
	flag.Var(&interfaceFiles, "i", "interface description file (repeatable)")

	flag.Parse()

	conf := &Config{}
	if *configFile != "" {
		var err error
		if conf, err = ReadConfig(*configFile); err != nil {
			fatal(err)
		}
	}

	if *behaviorFile != "" {
		conf.Behavior = *behaviorFile
	}
	if 0 < len(interfaceFiles) {
		conf.Interfaces = append(conf.Interfaces, interfaceFiles...)
	}
	if *outDir != "." || conf.OutDir == "" {
		conf.OutDir = *outDir
	}
	if *headerTemplate != "" {
		conf.HeaderTemplate = *headerTemplate
	}
	if *sourceTemplate != "" {
		conf.SourceTemplate = *sourceTemplate
	}
	if 0 < *waitRetries {
		conf.WaitRetries = *waitRetries
	}
	if 0 < *waitTimeout {
		conf.WaitTimeoutSec = *waitTimeout
	}
	if *cacheFile != "" {
		conf.Cache = *cacheFile
	}

	if conf.Behavior == "" {
		fmt.Fprintf(os.Stderr, "error: no behavior description (-b)\n")
		flag.Usage()
		os.Exit(1)
	}

	if *previewAddr != "" {
		if err := Preview(*previewAddr, conf); err != nil {
			fatal(err)
		}
		return
	}

	model, artifacts, err := Run(conf)
	if err != nil {
		fatal(err)
	}

	if err := WriteArtifacts(conf.OutDir, model.SkillName, artifacts); err != nil {
		fatal(err)
	}

	if *mermaidFile != "" {
		if err := writeWith(*mermaidFile, func(w *os.File) error {
			return tools.Mermaid(model, w, nil)
		}); err != nil {
			fatal(err)
		}
	}

	if *htmlFile != "" {
		if err := writeWith(*htmlFile, func(w *os.File) error {
			return tools.RenderSkillPage(model, w, nil)
		}); err != nil {
			fatal(err)
		}
	}

	if *dumpFile != "" {
		if err := writeWith(*dumpFile, func(w *os.File) error {
			return tools.DumpModel(model, w)
		}); err != nil {
			fatal(err)
		}
	}
}

// Run executes one extraction-resolution-generation pass.  The
// pipeline is a pure function of its file inputs: single-threaded,
// synchronous, idempotent.
func Run(conf *Config) (*core.EventModel, *gen.Artifacts, error) {
	src, err := ioutil.ReadFile(conf.Behavior)
	if err != nil {
		return nil, nil, err
	}

	model, err := core.Extract(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", conf.Behavior, err)
	}

	var cache *catalog.Cache
	if conf.Cache != "" {
		if cache, err = catalog.OpenCache(conf.Cache); err != nil {
			return nil, nil, err
		}
		defer cache.Close()
	}

	cat, err := catalog.LoadWithCache(cache, conf.Interfaces...)
	if err != nil {
		return nil, nil, err
	}

	if err := core.Resolve(model, cat); err != nil {
		return nil, nil, err
	}

	set, err := templateSet(conf)
	if err != nil {
		return nil, nil, err
	}

	artifacts, err := gen.Generate(model, set, gen.Params{
		WaitRetries:    conf.WaitRetries,
		WaitTimeoutSec: conf.WaitTimeoutSec,
	})
	if err != nil {
		return nil, nil, err
	}

	return model, artifacts, nil
}

func templateSet(conf *Config) (gen.Set, error) {
	set := gen.DefaultSet()
	if conf.HeaderTemplate != "" {
		bs, err := ioutil.ReadFile(conf.HeaderTemplate)
		if err != nil {
			return set, err
		}
		set.Header = gen.Template{Name: conf.HeaderTemplate, Text: string(bs)}
	}
	if conf.SourceTemplate != "" {
		bs, err := ioutil.ReadFile(conf.SourceTemplate)
		if err != nil {
			return set, err
		}
		set.Source = gen.Template{Name: conf.SourceTemplate, Text: string(bs)}
	}
	return set, nil
}

// WriteArtifacts writes both generated units.  Both are staged as
// temporary files first and renamed only after both writes succeed,
// so a failure never leaves a half-updated pair behind.
func WriteArtifacts(dir, skillName string, artifacts *gen.Artifacts) error {
	header := filepath.Join(dir, skillName+".h")
	source := filepath.Join(dir, skillName+".cpp")

	if err := ioutil.WriteFile(header+".tmp", []byte(artifacts.Header), 0644); err != nil {
		return err
	}
	if err := ioutil.WriteFile(source+".tmp", []byte(artifacts.Source), 0644); err != nil {
		os.Remove(header + ".tmp")
		return err
	}
	if err := os.Rename(header+".tmp", header); err != nil {
		os.Remove(source + ".tmp")
		return err
	}
	return os.Rename(source+".tmp", source)
}

func writeWith(filename string, f func(*os.File) error) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := f(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
