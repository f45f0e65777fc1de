// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// hclBody is the HCL schema for one config layer. Media kinds are labeled blocks:
//
//	media "video" {
//	  destination_folder = "videos/{YEAR}"
//	}
type hclBody struct {
	MoveFiles            *bool             `hcl:"move_files,optional"`
	OverrideDestination  *bool             `hcl:"override_destination,optional"`
	DeleteSourceIfExists *bool             `hcl:"delete_source_if_exists,optional"`
	Recursive            *bool             `hcl:"recursive,optional"`
	DestinationFolder    *string           `hcl:"destination_folder,optional"`
	DestinationFile      *string           `hcl:"destination_file,optional"`
	SourceFilter         *string           `hcl:"source_filter,optional"`
	DryRun               *bool             `hcl:"dry_run,optional"`
	MinFreeSpace         *int64            `hcl:"min_free_space,optional"`
	Rotate               *bool             `hcl:"rotate,optional"`
	AllowDuplicates      *bool             `hcl:"allow_duplicates,optional"`
	ExistsResolver       *string           `hcl:"exists_resolver,optional"`
	Loaders              []string          `hcl:"loaders,optional"`
	Tokens               map[string]string `hcl:"tokens,optional"`
	Media                []*hclMedia       `hcl:"media,block"`
}

type hclMedia struct {
	Kind   string   `hcl:"kind,label"`
	Remain hcl.Body `hcl:",remain"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	return decodeHCLBody(hclFile.Body, evalCtx)
}

func decodeHCLBody(body hcl.Body, evalCtx *hcl.EvalContext) (*Config, error) {
	var raw hclBody
	if diags := gohcl.DecodeBody(body, evalCtx, &raw); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		MoveFiles:            raw.MoveFiles,
		OverrideDestination:  raw.OverrideDestination,
		DeleteSourceIfExists: raw.DeleteSourceIfExists,
		Recursive:            raw.Recursive,
		DestinationFolder:    raw.DestinationFolder,
		DestinationFile:      raw.DestinationFile,
		SourceFilter:         raw.SourceFilter,
		DryRun:               raw.DryRun,
		MinFreeSpace:         raw.MinFreeSpace,
		Rotate:               raw.Rotate,
		AllowDuplicates:      raw.AllowDuplicates,
		ExistsResolver:       raw.ExistsResolver,
		Loaders:              raw.Loaders,
		Tokens:               raw.Tokens,
	}

	for _, m := range raw.Media {
		nested, err := decodeHCLBody(m.Remain, evalCtx)
		if err != nil {
			return nil, errors.Errorf("media %q: %w", m.Kind, err)
		}
		if cfg.Media == nil {
			cfg.Media = make(map[string]*Config, len(raw.Media))
		}
		if _, dup := cfg.Media[m.Kind]; dup {
			return nil, errors.Errorf("media %q declared twice", m.Kind)
		}
		cfg.Media[m.Kind] = nested
	}

	return cfg, nil
}
