package domain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"
)

// LoadYAML parses one or more YAML documents, each a Domain.
// Unknown fields are rejected.
func LoadYAML(data []byte) ([]*Domain, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields

	var domains []*Domain
	for {
		var d Domain
		err := decoder.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		domains = append(domains, &d)
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("no domain found in YAML")
	}
	return domains, nil
}

// LoadCUE compiles CUE source and returns every domain under the
// top-level "domain" struct, in declaration order.
func LoadCUE(data []byte, filename string) ([]*Domain, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileAll(v)
}

// LoadCUEDir loads the CUE package in dir and returns its domains.
func LoadCUEDir(dir string) ([]*Domain, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing domain directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileAll(v)
}

// LoadFile loads domains from path. .yaml and .yml files are read as YAML,
// .cue files as CUE, and directories as a CUE package.
func LoadFile(path string) ([]*Domain, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read domain file: %w", err)
	}
	if info.IsDir() {
		return LoadCUEDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read domain file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".cue":
		return LoadCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported domain file extension %q (want .yaml, .yml or .cue)", filepath.Ext(path))
	}
}

// Find returns the domain called name, or the only domain when name is
// empty and there is exactly one.
func Find(domains []*Domain, name string) (*Domain, error) {
	if name == "" {
		if len(domains) == 1 {
			return domains[0], nil
		}
		return nil, fmt.Errorf("%d domains loaded, name one", len(domains))
	}
	for _, d := range domains {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("domain %q not found", name)
}

func compileAll(v cue.Value) ([]*Domain, error) {
	domainsVal := v.LookupPath(cue.ParsePath("domain"))
	if !domainsVal.Exists() {
		return nil, &CompileError{Field: "domain", Message: "no domain struct found", Pos: v.Pos()}
	}
	iter, err := domainsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var domains []*Domain
	for iter.Next() {
		d, err := CompileCUE(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("domain.%s: %w", iter.Label(), err)
		}
		domains = append(domains, d)
	}
	if len(domains) == 0 {
		return nil, &CompileError{Field: "domain", Message: "at least one domain is required", Pos: domainsVal.Pos()}
	}
	return domains, nil
}
