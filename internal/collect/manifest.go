package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/scenario"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/shell"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// EnvParam is the environment variable holding the parametrization token
// for command-based tests.
const EnvParam = "SCENARIST_PARAM"

// defaultConcurrency bounds parallel manifest decoding.
const defaultConcurrency = 4

// ErrUnsupportedManifest is returned for a matched file whose extension is
// neither TOML nor YAML.
var ErrUnsupportedManifest = errors.New("unsupported manifest format")

// manifestFile is the on-disk shape of a test manifest. TOML files use
// [[test]] tables; YAML files use a top-level "tests" list.
type manifestFile struct {
	Tests []manifestTest `toml:"test" yaml:"tests"`
}

type manifestTest struct {
	Name      string   `toml:"name" yaml:"name"`
	Scenarios []string `toml:"scenarios" yaml:"scenarios"`
	Params    []string `toml:"params" yaml:"params"`
	Run       string   `toml:"run" yaml:"run"`
	Timeout   string   `toml:"timeout" yaml:"timeout"`
}

// ManifestOptions controls LoadManifests.
type ManifestOptions struct {
	// Shell is the interpreter for test commands. Empty uses the shell
	// package default.
	Shell string

	// Timeout applies to tests that do not set their own. Zero means no
	// deadline.
	Timeout time.Duration

	// Concurrency bounds how many manifests are decoded at once. Zero uses
	// a small default.
	Concurrency int
}

// LoadManifests finds the files under root matching any of patterns,
// decodes them concurrently and returns their declarations ordered by
// file path, then by position within the file. Each declaration runs its
// command through the shell with the scenario environment, from the
// manifest's directory.
func LoadManifests(ctx context.Context, root string, patterns []string, opts ManifestOptions) ([]Declaration, error) {
	paths, err := MatchManifests(root, patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	decoded := make([][]Declaration, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decls, err := loadManifest(filepath.Join(root, filepath.FromSlash(rel)), opts)
			if err != nil {
				return err
			}
			decoded[i] = decls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Declaration
	for _, decls := range decoded {
		out = append(out, decls...)
	}
	return out, nil
}

// MatchManifests returns the slash-separated paths, relative to root, of
// regular files matching any of patterns. The result is sorted and free of
// duplicates.
func MatchManifests(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("manifest pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching manifest pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func loadManifest(path string, opts ManifestOptions) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	mf, err := decodeManifest(path, data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	decls := make([]Declaration, 0, len(mf.Tests))
	for i, mt := range mf.Tests {
		source := fmt.Sprintf("%s: test #%d", path, i+1)
		if strings.TrimSpace(mt.Run) == "" {
			return nil, fmt.Errorf("%s: %w: run is required", source, ErrInvalidDeclaration)
		}
		timeout := opts.Timeout
		if mt.Timeout != "" {
			timeout, err = time.ParseDuration(mt.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: timeout: %v", source, ErrInvalidDeclaration, err)
			}
		}
		decls = append(decls, Declaration{
			Name:      mt.Name,
			Scenarios: mt.Scenarios,
			Params:    mt.Params,
			Source:    path,
			Run: CommandBody(mt.Run, shell.Options{
				Shell:   opts.Shell,
				Dir:     dir,
				Timeout: timeout,
			}),
		})
	}
	return decls, nil
}

func decodeManifest(path string, data []byte) (*manifestFile, error) {
	var mf manifestFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &mf)
		if err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("manifest %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %s: %w", path, ErrUnsupportedManifest)
	}
	return &mf, nil
}

// CommandBody returns a test body that runs command through the shell with
// the scenario environment and the case's param exported as EnvParam.
func CommandBody(command string, opts shell.Options) testcase.Body {
	return func(ctx context.Context, sc scenario.Scenario) error {
		run := opts
		run.Env = append(slices.Clone(opts.Env), scenario.Env(sc)...)
		run.Env = append(run.Env, EnvParam+"="+ParamFrom(ctx))

		res, err := shell.Run(ctx, run, command)
		if err != nil {
			return err
		}
		return res.Err()
	}
}
