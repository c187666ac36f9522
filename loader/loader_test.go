package loader

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/types"
)

// loadString runs a single Lua source through the full load pipeline.
func loadString(src string) (*state.Defs, error) {
	return load(func(L *lua.LState) error {
		return L.DoString(src)
	})
}

func TestLoad_Minimal(t *testing.T) {
	defs, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if defs.Game.Title != "Minimal Test Journey" {
		t.Errorf("Title = %q, want %q", defs.Game.Title, "Minimal Test Journey")
	}
	if _, ok := defs.Items["bread"]; !ok {
		t.Error("item 'bread' not found")
	}
	route, ok := defs.Routes["Short Walk"]
	if !ok {
		t.Fatal("route 'Short Walk' not found")
	}
	if len(route.Checkpoints) != 2 || route.Checkpoints[1].Name != "Rome" {
		t.Errorf("checkpoints = %+v, want 2 ending at Rome", route.Checkpoints)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/does-not-exist"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestBuiltin_Loads(t *testing.T) {
	defs, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if defs.Game.Title == "" {
		t.Error("builtin content has no game title")
	}
	if len(defs.Items) == 0 || len(defs.Animals) == 0 || len(defs.Professions) == 0 {
		t.Errorf("builtin content incomplete: %d items, %d animals, %d professions",
			len(defs.Items), len(defs.Animals), len(defs.Professions))
	}
	if len(defs.Routes) == 0 {
		t.Error("builtin content has no routes")
	}
	// Infection replacement injury must exist in content.
	if _, ok := defs.Injuries["Infected Wound"]; !ok {
		t.Error("builtin content missing 'Infected Wound' injury")
	}
}

func TestCompile_LegacyRecipeNormalized(t *testing.T) {
	defs, err := loadString(`
Game { title = "T" }
Item "linen" { price = 3 }
Item "bandage" { price = 6 }
Recipe "bandage" { item = "linen", requires = 2, result = "bandage" }
`)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	recipe, ok := defs.Recipes["bandage"]
	if !ok {
		t.Fatal("recipe 'bandage' not found")
	}
	if recipe.Costs["linen"] != 2 {
		t.Errorf("Costs[linen] = %d, want 2", recipe.Costs["linen"])
	}
	if recipe.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", recipe.Quantity)
	}
}

func TestCompile_SeverityRange(t *testing.T) {
	defs, err := loadString(`
Game { title = "T" }
Injury "Fever" {
    health_drain = 3,
    recovery_days = 7,
    min_severity = "moderate",
    max_severity = "critical",
}
`)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	inj := defs.Injuries["Fever"]
	if inj.MinSeverity != types.SeverityModerate {
		t.Errorf("MinSeverity = %v, want Moderate", inj.MinSeverity)
	}
	if inj.MaxSeverity != types.SeverityCritical {
		t.Errorf("MaxSeverity = %v, want Critical", inj.MaxSeverity)
	}
}

func TestValidate_UnknownRecipeIngredient(t *testing.T) {
	_, err := loadString(`
Game { title = "T" }
Item "bandage" { price = 6 }
Recipe "bandage" { costs = { moonrock = 1 }, result = "bandage" }
`)
	if err == nil {
		t.Fatal("expected validation error for unknown ingredient")
	}
	if !strings.Contains(err.Error(), "moonrock") {
		t.Errorf("error %q does not name the bad ingredient", err)
	}
}

func TestValidate_RouteNotAscending(t *testing.T) {
	_, err := loadString(`
Game { title = "T" }
Route "Bad" {
    checkpoints = {
        { name = "A", distance = 100 },
        { name = "B", distance = 50 },
    },
}
`)
	if err == nil {
		t.Fatal("expected validation error for descending checkpoints")
	}
	if !strings.Contains(err.Error(), "not ascending") {
		t.Errorf("error %q does not mention ordering", err)
	}
}

func TestValidate_MissingTitle(t *testing.T) {
	_, err := loadString(`Game { version = "1" }`)
	if err == nil {
		t.Fatal("expected validation error for missing title")
	}
}

func TestSandbox_BlocksOS(t *testing.T) {
	_, err := loadString(`os.execute("echo pwned")`)
	if err == nil {
		t.Error("expected error calling os.execute in sandbox")
	}
}

func TestSandbox_BlocksDofile(t *testing.T) {
	_, err := loadString(`dofile("/etc/passwd")`)
	if err == nil {
		t.Error("expected error calling dofile in sandbox")
	}
}
