package main

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/steelkilt/internal/config"
	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/equipment"
	"github.com/cory-johannsen/steelkilt/internal/game/magic"
)

// library is the loaded content: equipment catalog, spells and templates.
type library struct {
	catalog   *equipment.Catalog
	spells    map[string]*magic.Spell
	templates map[string]*character.Template
}

func loadLibrary(cfg config.ContentConfig) (*library, error) {
	catalog, err := equipment.LoadCatalog(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("loading equipment: %w", err)
	}
	spellList, err := magic.LoadSpells(cfg.SpellsDir())
	if err != nil {
		return nil, fmt.Errorf("loading spells: %w", err)
	}
	tmpls, err := character.LoadTemplates(cfg.CombatantsDir())
	if err != nil {
		return nil, fmt.Errorf("loading combatants: %w", err)
	}

	lib := &library{
		catalog:   catalog,
		spells:    make(map[string]*magic.Spell, len(spellList)),
		templates: make(map[string]*character.Template, len(tmpls)),
	}
	for _, s := range spellList {
		lib.spells[s.Name] = s
	}
	for _, t := range tmpls {
		lib.templates[t.ID] = t
	}
	return lib, nil
}

// build creates a fresh character from the template with the given ID.
func (l *library) build(id string) (*character.Character, error) {
	tmpl, ok := l.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown combatant template %q (known: %v)", id, l.templateIDs())
	}
	return character.Build(tmpl, l.catalog, l.spells)
}

func (l *library) templateIDs() []string {
	ids := make([]string, 0, len(l.templates))
	for id := range l.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
