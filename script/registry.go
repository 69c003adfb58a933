// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

// Module is a program reachable through the engine.
type Module struct {
	modName    string
	modID      solana.PublicKey
	modHandler func(env *setypes.ScriptEnv, data []byte) error
}

func (m *Module) ToString() string {
	return fmt.Sprintf("Module::: Name: %v, ID: %v", m.modName, m.modID)
}

func (m *Module) Name() string         { return m.modName }
func (m *Module) ID() solana.PublicKey { return m.modID }

// Registry is the hub of all programs the engine can route to.
type Registry struct {
	Modules sync.Map
}

func (r *Registry) Register(modID solana.PublicKey, p *Module) error {
	_, loaded := r.Modules.LoadOrStore(modID, *p)
	if loaded {
		return errors.Errorf("module with ID %v is already registered", modID)
	}
	return nil
}

// ForceRegister registers with a unique ID and force replacing the previous module if it exists
func (r *Registry) ForceRegister(modID solana.PublicKey, p *Module) error {
	r.Modules.Store(modID, *p)
	return nil
}

// Find by ID
func (r *Registry) Find(modID solana.PublicKey) (*Module, bool) {
	value, ok := r.Modules.Load(modID)
	if !ok {
		return nil, false
	}
	p, ok := value.(Module)
	if !ok {
		panic("Registry stores the item which is not a Module")
	}
	return &p, true
}

func (r *Registry) All() []Module {
	all := make([]Module, 0)
	r.Modules.Range(func(_, value interface{}) bool {
		p, ok := value.(Module)
		if !ok {
			panic("Registry stores the item which is not a module")
		}
		all = append(all, p)
		return true
	})
	return all
}
