package config

import (
	"maps"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/evcon/evcon/internal/config/data"
	"github.com/evcon/evcon/internal/dao"
)

// Aliases maps short command names to grid resources.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex
}

// DefaultAliases are the built-in grid shortcuts.
var DefaultAliases = map[string]string{
	"ev":          string(dao.CarRID),
	"vehicles":    string(dao.CarRID),
	"reg":         string(dao.RegistrationTokenRID),
	"charging":    string(dao.TransactionRID),
	"consumption": string(dao.StatisticRID),
	"kwh":         string(dao.StatisticRID),
}

// NewAliases creates an Aliases with the defaults loaded.
func NewAliases() *Aliases {
	return &Aliases{Alias: maps.Clone(DefaultAliases)}
}

// Load merges the aliases file over the defaults.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom merges aliases from the given file, file entries win.
func (a *Aliases) LoadFrom(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var loaded Aliases
	if err := data.LoadYAML(path, &loaded); err != nil {
		return err
	}

	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range loaded.Alias {
		a.Alias[strings.ToLower(k)] = v
	}

	return nil
}

// SaveTo writes the aliases to the given file.
func (a *Aliases) SaveTo(path string) error {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return data.SaveYAML(path, a)
}

// Resolve returns the grid resource a command stands for. Aliases are checked
// first, then the resource names and their built-in short names.
func (a *Aliases) Resolve(cmd string) (dao.ResourceID, bool) {
	cmd = strings.ToLower(strings.TrimSpace(cmd))

	a.mx.RLock()
	target, ok := a.Alias[cmd]
	a.mx.RUnlock()
	if ok {
		cmd = target
	}

	return dao.Resolve(cmd)
}

// Set sets an alias.
func (a *Aliases) Set(alias, resource string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.Alias[strings.ToLower(alias)] = resource
}

// Names returns the sorted alias names.
func (a *Aliases) Names() []string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	nn := make([]string, 0, len(a.Alias))
	for k := range a.Alias {
		nn = append(nn, k)
	}
	sort.Strings(nn)

	return nn
}

// All returns a copy of all aliases.
func (a *Aliases) All() map[string]string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return maps.Clone(a.Alias)
}
