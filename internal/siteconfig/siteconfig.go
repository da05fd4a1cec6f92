// Package siteconfig loads the site configuration document that stylesheets
// read through site-config().
//
// TOML, YAML and JSON documents are decoded with koanf. HCL documents are
// decoded from top-level attributes. Every result is normalized to decoded
// JSON values: nil, bool, float64, string, []any and map[string]any.
package siteconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Extensions lists the recognized document extensions.
var Extensions = []string{".toml", ".yaml", ".yml", ".json", ".hcl"}

// Load reads the configuration document at path. The format follows the
// file extension.
func Load(fsys afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}

	var raw map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		raw, err = loadKoanf(data, toml.Parser())
	case ".yaml", ".yml":
		raw, err = loadKoanf(data, yaml.Parser())
	case ".json":
		raw, err = loadKoanf(data, json.Parser())
	case ".hcl":
		raw, err = loadHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported site config format %q (want one of %s)", ext, strings.Join(Extensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("parse site config %s: %w", path, err)
	}
	return normalize(raw)
}

// loadKoanf decodes data with parser. Dotted keys nest, as everywhere in koanf.
func loadKoanf(data []byte, parser koanf.Parser) (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// loadHCL evaluates the document's top-level attributes without variables
// or functions and encodes them as one JSON object.
func loadHCL(data []byte, filename string) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		values[name] = v
	}

	encoded, err := ctyjson.SimpleJSONValue{Value: cty.ObjectVal(values)}.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return json.Parser().Unmarshal(encoded)
}

// normalize round-trips raw through JSON so numbers become float64 and
// dates become strings.
func normalize(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		return map[string]any{}, nil
	}
	p := json.Parser()
	b, err := p.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize site config: %w", err)
	}
	out, err := p.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("normalize site config: %w", err)
	}
	return out, nil
}
