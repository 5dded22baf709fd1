package syscalls

import (
	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Func is a native function callable from a program. Arguments arrive in
// r1-r5 and the return value is written to r0.
type Func func(env *Env, a1, a2, a3, a4, a5 uint64) (uint64, error)

// Entry pairs a syscall name with its implementation
type Entry struct {
	Name string
	Func Func
}

// Table resolves syscalls by name and by symbol hash. It is immutable once
// built and may be shared across runs.
type Table struct {
	byName map[string]Func
	byHash map[uint32]string
}

// Hash returns the symbol hash programs use to reference a syscall
func Hash(name string) uint32 {
	return murmur3.Sum32([]byte(name))
}

// NewTable registers the entries, failing if a name or its hash is repeated
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		byName: make(map[string]Func, len(entries)),
		byHash: make(map[uint32]string, len(entries)),
	}

	for _, entry := range entries {
		if entry.Func == nil {
			return nil, errors.Errorf("syscall %s has no implementation", entry.Name)
		}

		if _, ok := t.byName[entry.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateSyscall, "name %s", entry.Name)
		}

		hash := Hash(entry.Name)
		if existing, ok := t.byHash[hash]; ok {
			return nil, errors.Wrapf(ErrDuplicateSyscall, "hash 0x%08x of %s collides with %s", hash, entry.Name, existing)
		}

		t.byName[entry.Name] = entry.Func
		t.byHash[hash] = entry.Name
	}

	return t, nil
}

// DefaultTable returns a table holding every syscall this package implements
func DefaultTable() (*Table, error) {
	return NewTable(
		Entry{"sol_log_", Log},
		Entry{"abort", Abort},
		Entry{"sol_panic_", Panic},
		Entry{"sol_memcpy_", Memcpy},
		Entry{"sol_memmove_", Memmove},
		Entry{"sol_memset_", Memset},
		Entry{"sol_memcmp_", Memcmp},
	)
}

func (t *Table) Lookup(name string) (Func, bool) {
	fn, ok := t.byName[name]
	return fn, ok
}

func (t *Table) LookupByHash(hash uint32) (string, Func, bool) {
	name, ok := t.byHash[hash]
	if !ok {
		return "", nil, false
	}
	return name, t.byName[name], true
}

// Names returns the registered names in sorted order
func (t *Table) Names() []string {
	names := maps.Keys(t.byName)
	slices.Sort(names)
	return names
}

// Invoke calls the named syscall with up to five arguments, zero filling the
// rest.
func (t *Table) Invoke(name string, env *Env, args ...uint64) (uint64, error) {
	fn, ok := t.Lookup(name)
	if !ok {
		return 0, errors.Wrap(ErrUnknownSyscall, name)
	}

	if len(args) > 5 {
		return 0, errors.Errorf("syscall %s takes at most 5 arguments, got %d", name, len(args))
	}

	var a [5]uint64
	copy(a[:], args)
	return fn(env, a[0], a[1], a[2], a[3], a[4])
}
