package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
)

// Manifest is a project name declared by a manifest file.
type Manifest struct {
	File string
	Name string
}

type reader func(data []byte) (string, error)

// readers are tried in order; the file name is relative to the project dir.
var readers = []struct {
	file string
	read reader
}{
	{"pyproject.toml", readPyproject},
	{"package.json", readPackageJSON},
	{"go.mod", readGoMod},
	{"Cargo.toml", readCargo},
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// Load reads every known manifest in dir and returns the declared project
// names. Missing manifests are skipped. Unreadable or malformed ones are
// reported in the returned error, alongside whatever could be read.
func Load(dir string) ([]Manifest, error) {
	var (
		manifests []Manifest
		errs      []error
	)
	for _, r := range readers {
		p := filepath.Join(dir, r.file)
		data, err := os.ReadFile(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("read %s: %w", r.file, err))
			}
			continue
		}
		name, err := r.read(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", r.file, err))
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			manifests = append(manifests, Manifest{File: r.file, Name: name})
		}
	}
	return manifests, errors.Join(errs...)
}

// Names returns just the declared names from Load.
func Names(dir string) ([]string, error) {
	manifests, err := Load(dir)
	names := make([]string, 0, len(manifests))
	for _, m := range manifests {
		names = append(names, m.Name)
	}
	return names, err
}

func readPyproject(data []byte) (string, error) {
	var doc struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return "", err
	}
	if doc.Project.Name != "" {
		return doc.Project.Name, nil
	}
	return doc.Tool.Poetry.Name, nil
}

func readCargo(data []byte) (string, error) {
	var doc struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return "", err
	}
	return doc.Package.Name, nil
}

func readPackageJSON(data []byte) (string, error) {
	var doc struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	if doc.Name == "" {
		return "", nil
	}
	// Scoped npm names: @org/name declares "name".
	return path.Base(doc.Name), nil
}

func readGoMod(data []byte) (string, error) {
	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return "", errors.New("no module directive")
	}
	base := path.Base(modPath)
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(modPath))
	}
	return base, nil
}
