package brewin

// assignVariable implements the shared resolution rule for set and input:
// a parameter or local shadows a field, and the stored type never changes.
func (exec *Execution) assignVariable(act *activation, name string, val Value, pos Position) error {
	if val.Kind() == KindNothing {
		return exec.errorAt(TypeError, pos, "cannot assign nothing to %s", name)
	}

	if cur, ok := act.env.Get(name); ok {
		if cur.Kind() != val.Kind() {
			return exec.errorAt(TypeError, pos, "mismatched types: %s holds %s, got %s", name, cur.Kind(), val.Kind())
		}
		act.env.Set(name, val)
		return nil
	}

	cur, ok := act.self.fields[name]
	if !ok {
		return exec.errorAt(NameError, pos, "unknown variable %s", name)
	}
	if cur.Kind() != val.Kind() {
		return exec.errorAt(TypeError, pos, "mismatched types: field %s holds %s, got %s", name, cur.Kind(), val.Kind())
	}
	act.self.fields[name] = val
	return nil
}
