package source

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/carlog/internal/model"
)

//go:embed source.cue
var schemaCUE string

var (
	// ErrNotFound is returned by Load when the source file does not exist.
	ErrNotFound = errors.New("source not found")

	// ErrInvalid wraps parse and schema errors.
	ErrInvalid = errors.New("invalid source")
)

// Dataset is the decoded content of a source file, in declared order.
type Dataset struct {
	Fuel  []model.FuelEvent
	Rides []model.RideNote
}

// Load reads and validates the source file at path.
// An empty path or a missing file yields ErrNotFound.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return nil, ErrNotFound
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	return Parse(path, raw)
}

// Parse validates and decodes raw source content. The name selects the
// format by extension and is used in error positions.
func Parse(name string, raw []byte) (*Dataset, error) {
	ctx := cuecontext.New()

	doc, err := compileDocument(ctx, name, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("source.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile source schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Source")).Unify(doc)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}

	ds, err := decode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}
	return ds, nil
}

// compileDocument turns raw JSON or YAML into a CUE value.
func compileDocument(ctx *cue.Context, name string, raw []byte) (cue.Value, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var data any
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return cue.Value{}, fmt.Errorf("parse YAML: %w", err)
		}
		if data == nil {
			data = map[string]any{}
		}
		v := ctx.Encode(data)
		return v, v.Err()
	default:
		// JSON is valid CUE.
		v := ctx.CompileBytes(raw, cue.Filename(name))
		return v, v.Err()
	}
}
