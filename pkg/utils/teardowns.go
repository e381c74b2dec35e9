package utils

// Teardowns chains cleanup funcs and runs them in reverse order, like
// defer. Funcs that can fail are added with AddErr; Teardown reports the
// first failure but still runs everything.
type Teardowns struct {
	funcs []func() error
}

func (t *Teardowns) Add(fn func()) {
	t.funcs = append(t.funcs, func() error { fn(); return nil })
}

func (t *Teardowns) AddErr(fn func() error) {
	t.funcs = append(t.funcs, fn)
}

func (t *Teardowns) Teardown() error {
	var first error
	for i := len(t.funcs) - 1; i >= 0; i-- {
		if err := t.funcs[i](); err != nil && first == nil {
			first = err
		}
	}
	t.funcs = nil
	return first
}
