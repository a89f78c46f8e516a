package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultOverrideNames are the conventional override file names, in lookup
// order. The first one that exists wins.
var DefaultOverrideNames = []string{
	"chaincfg-local.yaml",
	"chaincfg-local.yml",
	"chaincfg-local.json",
	"chaincfg-local.toml",
}

// OverrideKind tags the outcome of an override lookup.
type OverrideKind int

const (
	// OverrideNotFound means no candidate file exists.
	OverrideNotFound OverrideKind = iota
	// OverrideFound means a file was read and parsed into Tree.
	OverrideFound
	// OverrideLoadFailed means a file exists but could not be used.
	OverrideLoadFailed
)

func (k OverrideKind) String() string {
	switch k {
	case OverrideNotFound:
		return "not-found"
	case OverrideFound:
		return "found"
	case OverrideLoadFailed:
		return "load-failed"
	default:
		return fmt.Sprintf("OverrideKind(%d)", int(k))
	}
}

// OverrideResult is the outcome of LoadOverride. Tree is set only for
// OverrideFound; Err is ErrOverrideNotFound or an *OverrideLoadError otherwise.
type OverrideResult struct {
	Kind OverrideKind
	Path string
	Tree Tree
	Err  error
}

// LoadOverride looks for the first existing file among names inside dir and
// parses it according to its extension (.yaml, .yml, .json, .toml).
func LoadOverride(dir string, names []string) OverrideResult {
	for _, name := range names {
		path := filepath.Join(dir, name)

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return failed(path, err)
		}

		parser, err := parserFor(path)
		if err != nil {
			return failed(path, err)
		}

		k := koanf.New(".")
		if err := k.Load(file.Provider(path), parser); err != nil {
			return failed(path, err)
		}
		return OverrideResult{Kind: OverrideFound, Path: path, Tree: k.Raw()}
	}

	return OverrideResult{Kind: OverrideNotFound, Err: ErrOverrideNotFound}
}

func failed(path string, err error) OverrideResult {
	return OverrideResult{
		Kind: OverrideLoadFailed,
		Path: path,
		Err:  &OverrideLoadError{Path: path, Err: err},
	}
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}
