package tactics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/steelkilt/internal/game/dice"
)

// DecideFunc is the Lua global every tactics script must define.
const DecideFunc = "decide"

// ErrUnknownScript is returned by Policy for a name that was never loaded.
var ErrUnknownScript = errors.New("unknown tactics script")

// script is one loaded tactics file and its private VM. An LState is
// single-threaded, so every call holds mu.
type script struct {
	mu   sync.Mutex
	name string
	L    *lua.LState
}

// Manager owns one sandboxed LState per tactics script.
//
// Manager is safe for concurrent use. Calls into the same script are
// serialized; different scripts run concurrently.
type Manager struct {
	mu        sync.RWMutex
	scripts   map[string]*script
	roller    *dice.Roller
	logger    *zap.Logger
	instLimit int
}

// NewManager creates an empty Manager.
//
// Precondition: roller and logger must be non-nil. instLimit <= 0 selects
// DefaultInstructionLimit.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{
		scripts:   make(map[string]*script),
		roller:    roller,
		logger:    logger,
		instLimit: instLimit,
	}
}

// LoadDir loads every *.lua file in dir in lexicographic order. Each script
// is named after its file without the extension.
//
// Postcondition: on error, scripts loaded before the failing file stay loaded.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("tactics: reading script dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := m.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile loads one script, replacing any script of the same name.
//
// Postcondition: returns an error if the file fails to run within the
// instruction limit or does not define decide.
func (m *Manager) LoadFile(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	L := NewSandboxedState()
	m.registerModules(L, name)

	err := runLimited(context.Background(), L, m.instLimit, func() error {
		return L.DoFile(path)
	})
	if err != nil {
		L.Close()
		return fmt.Errorf("tactics: loading %q: %w", path, err)
	}
	if L.GetGlobal(DecideFunc).Type() != lua.LTFunction {
		L.Close()
		return fmt.Errorf("tactics: %q does not define %s()", path, DecideFunc)
	}

	m.mu.Lock()
	if old, ok := m.scripts[name]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.scripts[name] = &script{name: name, L: L}
	m.mu.Unlock()
	m.logger.Debug("tactics script loaded", zap.String("script", name), zap.String("path", path))
	return nil
}

// Names returns the loaded script names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scripts))
	for n := range m.scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Policy returns the duel policy backed by the named script.
//
// Postcondition: returns an error wrapping ErrUnknownScript if name was not loaded.
func (m *Manager) Policy(name string) (*Policy, error) {
	m.mu.RLock()
	s, ok := m.scripts[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tactics %q: %w", name, ErrUnknownScript)
	}
	return &Policy{script: s, limit: m.instLimit}, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, s := range m.scripts {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scripts, name)
	}
}

// registerModules installs the engine table: engine.d10() rolls a logged
// die and engine.log(msg) writes a debug log line tagged with the script.
func (m *Manager) registerModules(L *lua.LState, name string) {
	engine := L.NewTable()
	L.SetField(engine, "d10", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.roller.D10()))
		return 1
	}))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("tactics", zap.String("script", name), zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("engine", engine)
}
