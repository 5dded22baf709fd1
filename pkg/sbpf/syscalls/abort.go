package syscalls

// Abort implements abort. It always fails the run.
func Abort(env *Env, a1, a2, a3, a4, a5 uint64) (uint64, error) {
	return 0, abort(env, "abort", a1, a2, a3, a4, a5)
}

// Panic implements sol_panic_, which behaves exactly like abort
func Panic(env *Env, a1, a2, a3, a4, a5 uint64) (uint64, error) {
	return 0, abort(env, "sol_panic_", a1, a2, a3, a4, a5)
}

func abort(env *Env, name string, a1, a2, a3, a4, a5 uint64) error {
	env.Log.WithField("syscall", name).Infof("Abort args: %x %x %x %x %x", a1, a2, a3, a4, a5)

	return &AbortError{
		Name: name,
		Args: [5]uint64{a1, a2, a3, a4, a5},
	}
}
