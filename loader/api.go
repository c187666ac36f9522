package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals. Every constructor
// is curried: Item "bread" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	curried := func(sink *[]rawDef) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*sink = append(*sink, rawDef{name: name, table: tbl})
				return 0
			}))
			return 1
		})
	}

	L.SetGlobal("Item", curried(&coll.items))
	L.SetGlobal("Recipe", curried(&coll.recipes))
	L.SetGlobal("Animal", curried(&coll.animals))
	L.SetGlobal("Injury", curried(&coll.injuries))
	L.SetGlobal("Profession", curried(&coll.professions))
	L.SetGlobal("Route", curried(&coll.routes))
}
