package cpd

// pick returns the first non-zero value in CLI > local > global order.
func pick[T comparable](cli T, local, global *T) T {
	var zero T
	if cli != zero {
		return cli
	}
	if local != nil && *local != zero {
		return *local
	}
	if global != nil && *global != zero {
		return *global
	}
	return zero
}

// pickBool resolves a boolean flag. A flag set on the command line wins even
// when it is false; otherwise local, then global, then def apply.
func pickBool(changed func(string) bool, name string, cli bool, local, global *bool, def bool) bool {
	switch {
	case changed(name):
		return cli
	case local != nil:
		return *local
	case global != nil:
		return *global
	}
	return def
}

// pickMap merges string maps with the same precedence: cli entries win over
// local ones, which win over global ones.
func pickMap(cli, local, global map[string]string) map[string]string {
	if len(cli) == 0 && len(local) == 0 && len(global) == 0 {
		return nil
	}
	out := make(map[string]string, len(cli)+len(local)+len(global))
	for _, m := range []map[string]string{global, local, cli} {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
