package equipment

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Catalog holds every loaded weapon, armor and ranged weapon indexed by ID.
type Catalog struct {
	weapons map[string]*Weapon
	armors  map[string]*Armor
	ranged  map[string]*RangedWeapon
}

// NewCatalog returns an empty Catalog.
//
// Postcondition: all internal maps are initialised.
func NewCatalog() *Catalog {
	return &Catalog{
		weapons: make(map[string]*Weapon),
		armors:  make(map[string]*Armor),
		ranged:  make(map[string]*RangedWeapon),
	}
}

// LoadCatalog loads root/weapons, root/armor and root/ranged into a new Catalog.
//
// Precondition: the three subdirectories exist and are readable.
// Postcondition: returns a populated Catalog or the first load/registration error.
func LoadCatalog(root string) (*Catalog, error) {
	c := NewCatalog()
	weapons, err := LoadWeapons(filepath.Join(root, "weapons"))
	if err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if err := c.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}
	armors, err := LoadArmors(filepath.Join(root, "armor"))
	if err != nil {
		return nil, err
	}
	for _, a := range armors {
		if err := c.RegisterArmor(a); err != nil {
			return nil, err
		}
	}
	ranged, err := LoadRangedWeapons(filepath.Join(root, "ranged"))
	if err != nil {
		return nil, err
	}
	for _, r := range ranged {
		if err := c.RegisterRanged(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RegisterWeapon adds w to the catalog.
//
// Precondition: w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (c *Catalog) RegisterWeapon(w *Weapon) error {
	if _, exists := c.weapons[w.ID]; exists {
		return fmt.Errorf("equipment: Catalog.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	c.weapons[w.ID] = w
	return nil
}

// RegisterArmor adds a to the catalog.
//
// Precondition: a must not be nil.
// Postcondition: Armor(a.ID) returns a; returns error if a.ID already registered.
func (c *Catalog) RegisterArmor(a *Armor) error {
	if _, exists := c.armors[a.ID]; exists {
		return fmt.Errorf("equipment: Catalog.RegisterArmor: armor ID %q already registered", a.ID)
	}
	c.armors[a.ID] = a
	return nil
}

// RegisterRanged adds r to the catalog.
//
// Precondition: r must not be nil.
// Postcondition: Ranged(r.ID) returns r; returns error if r.ID already registered.
func (c *Catalog) RegisterRanged(r *RangedWeapon) error {
	if _, exists := c.ranged[r.ID]; exists {
		return fmt.Errorf("equipment: Catalog.RegisterRanged: ranged weapon ID %q already registered", r.ID)
	}
	c.ranged[r.ID] = r
	return nil
}

// Weapon returns the weapon with the given id, or nil if not found.
func (c *Catalog) Weapon(id string) *Weapon { return c.weapons[id] }

// Armor returns the armor with the given id, or nil if not found.
func (c *Catalog) Armor(id string) *Armor { return c.armors[id] }

// Ranged returns the ranged weapon with the given id, or nil if not found.
func (c *Catalog) Ranged(id string) *RangedWeapon { return c.ranged[id] }

// WeaponIDs returns every registered weapon ID in sorted order.
func (c *Catalog) WeaponIDs() []string {
	ids := make([]string, 0, len(c.weapons))
	for id := range c.weapons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
