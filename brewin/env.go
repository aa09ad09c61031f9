package brewin

import "sort"

// Env is the stack of binding frames for one method activation. Push copies
// the whole current frame, so writes made to inherited bindings while a let
// block is active are dropped by the matching Pop.
type Env struct {
	frames []map[string]Value
}

func newEnv() *Env {
	return &Env{frames: []map[string]Value{make(map[string]Value)}}
}

func (e *Env) top() map[string]Value {
	return e.frames[len(e.frames)-1]
}

func (e *Env) Get(name string) (Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if val, ok := e.frames[i][name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Set binds name in the innermost frame.
func (e *Env) Set(name string, val Value) {
	e.top()[name] = val
}

func (e *Env) Push() {
	clone := make(map[string]Value, len(e.top()))
	for k, v := range e.top() {
		clone[k] = v
	}
	e.frames = append(e.frames, clone)
}

func (e *Env) Pop() {
	if len(e.frames) == 1 {
		return
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// Names returns the names visible in the innermost frame, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.top()))
	for name := range e.top() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
