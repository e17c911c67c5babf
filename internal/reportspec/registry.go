package reportspec

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"egeriactl/pkg/logging"
)

// Registry is an ordered, alias-aware collection of FormatSets.
//
// Entries are stored and returned by value; callers receive copies and can
// only change the registry through Register, Remove and MergeFrom. All
// mutation happens under a single writer lock.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	sets    map[string]FormatSet
	aliases map[string]string // alias -> owning spec name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sets:    make(map[string]FormatSet),
		aliases: make(map[string]string),
	}
}

// Register inserts fs or replaces the entry of the same name.
//
// A name or alias already claimed by a different spec is rejected with an
// AliasConflictError and the registry is left unchanged.
func (r *Registry) Register(fs FormatSet) error {
	if fs.Name == "" {
		return fmt.Errorf("report spec name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkConflictsLocked(fs); err != nil {
		return err
	}

	if old, exists := r.sets[fs.Name]; exists {
		for _, alias := range old.Aliases {
			if r.aliases[alias] == fs.Name {
				delete(r.aliases, alias)
			}
		}
	} else {
		r.order = append(r.order, fs.Name)
	}

	stored := fs.Clone()
	r.sets[fs.Name] = stored
	for _, alias := range stored.Aliases {
		if alias != "" && alias != fs.Name {
			r.aliases[alias] = fs.Name
		}
	}

	logging.Debug("Registry", "Registered report spec %s (aliases: %v)", fs.Name, stored.Aliases)
	return nil
}

func (r *Registry) checkConflictsLocked(fs FormatSet) error {
	if owner, ok := r.aliases[fs.Name]; ok && owner != fs.Name {
		return &AliasConflictError{Spec: fs.Name, Alias: fs.Name, Owner: owner}
	}
	for _, alias := range fs.Aliases {
		if alias == "" || alias == fs.Name {
			continue
		}
		if _, ok := r.sets[alias]; ok {
			return &AliasConflictError{Spec: fs.Name, Alias: alias, Owner: alias}
		}
		if owner, ok := r.aliases[alias]; ok && owner != fs.Name {
			return &AliasConflictError{Spec: fs.Name, Alias: alias, Owner: owner}
		}
	}
	return nil
}

// Lookup finds a spec by primary name, then by alias.
func (r *Registry) Lookup(nameOrAlias string) (FormatSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(nameOrAlias)
}

func (r *Registry) lookupLocked(nameOrAlias string) (FormatSet, bool) {
	if fs, ok := r.sets[nameOrAlias]; ok {
		return fs.Clone(), true
	}
	if owner, ok := r.aliases[nameOrAlias]; ok {
		return r.sets[owner].Clone(), true
	}
	return FormatSet{}, false
}

// Contains reports whether Lookup would succeed.
func (r *Registry) Contains(nameOrAlias string) bool {
	_, ok := r.Lookup(nameOrAlias)
	return ok
}

// Remove deletes the spec registered under name. It returns false when no
// such spec exists. Aliases are not accepted here.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	fs, ok := r.sets[name]
	if !ok {
		return false
	}
	for _, alias := range fs.Aliases {
		if r.aliases[alias] == name {
			delete(r.aliases, alias)
		}
	}
	delete(r.sets, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

// Names returns spec names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// List returns copies of all specs in registration order.
func (r *Registry) List() []FormatSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FormatSet, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sets[name].Clone())
	}
	return out
}

// Len returns the number of registered specs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clone returns an independent registry holding the same entries.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	out.order = slices.Clone(r.order)
	for name, fs := range r.sets {
		out.sets[name] = fs.Clone()
	}
	for alias, owner := range r.aliases {
		out.aliases[alias] = owner
	}
	return out
}

// MergeFrom copies every entry of other into r. With overwrite, entries of
// other replace same-named entries of r; without it, existing entries are kept.
// Entries rejected for alias conflicts are skipped and reported together;
// the rest are still merged.
func (r *Registry) MergeFrom(other *Registry, overwrite bool) error {
	if other == nil || other == r {
		return nil
	}

	var errs []error
	for _, fs := range other.List() {
		if !overwrite && r.hasName(fs.Name) {
			continue
		}
		if err := r.Register(fs); err != nil {
			logging.Warn("Registry", "Skipping report spec %s during merge: %v", fs.Name, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) hasName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sets[name]
	return ok
}

// FindByHeader returns the names of specs whose heading and description both
// equal the given values, in registration order.
func (r *Registry) FindByHeader(heading, description string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range r.order {
		fs := r.sets[name]
		if fs.Heading == heading && fs.Description == description {
			names = append(names, name)
		}
	}
	return names
}
