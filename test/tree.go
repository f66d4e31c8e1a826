package test

import (
	"encoding/csv"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/siondream/localise"
)

// Tree is an in-memory project with sources under src/ and locale tables under lang/.
type Tree struct {
	Fs   afero.Fs
	Root string
}

func NewTree() *Tree {
	return &Tree{Fs: afero.NewMemMapFs(), Root: "/project"}
}

func (t *Tree) Path(rel string) string {
	return path.Join(t.Root, rel)
}

func (t *Tree) Write(rel, content string) error {
	return afero.WriteFile(t.Fs, t.Path(rel), []byte(content), 0o644)
}

func (t *Tree) Read(rel string) (string, error) {
	data, err := afero.ReadFile(t.Fs, t.Path(rel))
	return string(data), err
}

func (t *Tree) Exists(rel string) bool {
	ok, _ := afero.Exists(t.Fs, t.Path(rel))
	return ok
}

// Config returns a run over src/ writing to lang/.
func (t *Tree) Config(langs []string, patterns ...string) localise.Config {
	return localise.Config{
		Patterns:  patterns,
		Langs:     langs,
		SourceDir: t.Path("src"),
		TargetDir: t.Path("lang"),
	}
}

// Rows decodes a locale table, header included.
func Rows(content string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
