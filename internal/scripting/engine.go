package scripting

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
)

//go:embed scripts
var builtin embed.FS

// Engine wraps a single gopher-lua VM holding the tunable formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback data.DefaultTuning
}

var _ data.Tuning = (*Engine)(nil)

// NewEngine creates a Lua engine and loads the wave and meta scripts from
// scriptsDir, or the built-in scripts when scriptsDir is empty.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	var fsys fs.FS
	if scriptsDir == "" {
		sub, err := fs.Sub(builtin, "scripts")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(scriptsDir)
	}
	return NewEngineFS(fsys, log)
}

// NewEngineFS loads scripts from fsys.
func NewEngineFS(fsys fs.FS, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, sub := range []string{"wave", "meta"} {
		if err := e.loadDir(fsys, sub); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir runs every .lua file in a directory. Missing dirs are skipped.
func (e *Engine) loadDir(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".lua" {
			continue
		}
		p := path.Join(dir, entry.Name())
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", p))
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// call invokes a global Lua function with one argument and returns its single
// result. ok is false when the function is missing or raised an error.
func (e *Engine) call(name string, arg lua.LValue) (lua.LValue, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("func", name))
		return lua.LNil, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return lua.LNil, false
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, true
}

// number converts a Lua result to a finite float. Non-numbers and NaN/Inf
// are rejected.
func (e *Engine) number(name string, v lua.LValue) (float64, bool) {
	n, ok := v.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number", zap.String("func", name), zap.String("type", v.Type().String()))
		return 0, false
	}
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.log.Error("lua function returned non-finite number", zap.String("func", name))
		return 0, false
	}
	return f, true
}

// SpawnInterval calls spawn_interval. Results below 0.05s are raised to it.
func (e *Engine) SpawnInterval(wave int) float64 {
	ret, ok := e.call("spawn_interval", lua.LNumber(wave))
	if !ok {
		return e.fallback.SpawnInterval(wave)
	}
	f, ok := e.number("spawn_interval", ret)
	if !ok {
		return e.fallback.SpawnInterval(wave)
	}
	return math.Max(0.05, f)
}

// SpawnCount calls spawn_count. Negative results spawn nothing.
func (e *Engine) SpawnCount(wave int) int {
	ret, ok := e.call("spawn_count", lua.LNumber(wave))
	if !ok {
		return e.fallback.SpawnCount(wave)
	}
	f, ok := e.number("spawn_count", ret)
	if !ok {
		return e.fallback.SpawnCount(wave)
	}
	return max(0, int(f))
}

// enemyScale calls enemy_scale and reads one field of the returned table.
func (e *Engine) enemyScale(wave int, field string) (float64, bool) {
	ret, ok := e.call("enemy_scale", lua.LNumber(wave))
	if !ok {
		return 0, false
	}
	t, ok := ret.(*lua.LTable)
	if !ok {
		e.log.Error("lua enemy_scale returned non-table")
		return 0, false
	}
	f, ok := e.number("enemy_scale."+field, t.RawGetString(field))
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}

func (e *Engine) EnemyHPScale(wave int) float64 {
	if f, ok := e.enemyScale(wave, "hp"); ok {
		return f
	}
	return e.fallback.EnemyHPScale(wave)
}

func (e *Engine) EnemyDamageScale(wave int) float64 {
	if f, ok := e.enemyScale(wave, "damage"); ok {
		return f
	}
	return e.fallback.EnemyDamageScale(wave)
}

// MetaCost calls meta_upgrade_cost with a context table.
func (e *Engine) MetaCost(def *data.MetaDef, level int) int {
	ctx := e.vm.NewTable()
	ctx.RawSetString("id", lua.LString(def.ID))
	ctx.RawSetString("level", lua.LNumber(level))
	ctx.RawSetString("base_cost", lua.LNumber(def.BaseCost))
	ctx.RawSetString("cost_per_level", lua.LNumber(def.CostPerLevel))

	ret, ok := e.call("meta_upgrade_cost", ctx)
	if !ok {
		return e.fallback.MetaCost(def, level)
	}
	f, ok := e.number("meta_upgrade_cost", ret)
	if !ok || f < 0 {
		return e.fallback.MetaCost(def, level)
	}
	return int(math.Round(f))
}
