// Package loader loads Lua content tables (items, recipes, animals,
// injuries, professions, routes) into Go structs at startup. The Lua VM is
// discarded after loading — zero Lua at runtime.
package loader

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/pilgrim/engine/state"
)

//go:embed content/*.lua
var builtinContent embed.FS

// collector accumulates Lua definitions during file execution.
type collector struct {
	game        *lua.LTable
	items       []rawDef
	recipes     []rawDef
	animals     []rawDef
	injuries    []rawDef
	professions []rawDef
	routes      []rawDef
}

// rawDef holds a named Lua table before compilation.
type rawDef struct {
	name  string
	table *lua.LTable
}

// Load reads all .lua files from dir, compiles them into content
// definitions, validates references, and returns the immutable Defs.
func Load(dir string) (*state.Defs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Strings(luaFiles)

	return load(func(L *lua.LState) error {
		for _, f := range luaFiles {
			if err := L.DoFile(filepath.Join(dir, f)); err != nil {
				return fmt.Errorf("executing %s: %w", f, err)
			}
		}
		return nil
	})
}

// Builtin compiles the content tables embedded in the binary. It backs the
// default game when no content directory is given.
func Builtin() (*state.Defs, error) {
	entries, err := builtinContent.ReadDir("content")
	if err != nil {
		return nil, fmt.Errorf("reading embedded content: %w", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return load(func(L *lua.LState) error {
		for _, name := range names {
			src, err := builtinContent.ReadFile("content/" + name)
			if err != nil {
				return err
			}
			if err := L.DoString(string(src)); err != nil {
				return fmt.Errorf("executing embedded %s: %w", name, err)
			}
		}
		return nil
	})
}

// load runs Lua content through a sandboxed VM and compiles the result.
func load(run func(*lua.LState) error) (*state.Defs, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	if err := run(L); err != nil {
		return nil, err
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	if err := validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	// Remove math.randomseed to preserve determinism.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
