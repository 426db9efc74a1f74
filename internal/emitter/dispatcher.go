package emitter

// listener is one registered callback. Its pointer identity is what Off
// detaches, since funcs are not comparable.
type listener struct {
	kind Kind
	fn   Handler
}

// dispatcher fans events out to the listeners of one address. It is not
// goroutine safe; the Registry serializes access.
type dispatcher struct {
	listeners map[Kind][]*listener
}

func newDispatcher() *dispatcher {
	return &dispatcher{listeners: make(map[Kind][]*listener)}
}

func (d *dispatcher) add(kind Kind, fn Handler) *listener {
	l := &listener{kind: kind, fn: fn}
	d.listeners[kind] = append(d.listeners[kind], l)
	return l
}

// remove detaches l and reports whether it was still attached.
func (d *dispatcher) remove(l *listener) bool {
	attached := d.listeners[l.kind]
	for i, cur := range attached {
		if cur == l {
			d.listeners[l.kind] = append(attached[:i], attached[i+1:]...)
			if len(d.listeners[l.kind]) == 0 {
				delete(d.listeners, l.kind)
			}
			return true
		}
	}
	return false
}

func (d *dispatcher) removeAll() {
	d.listeners = make(map[Kind][]*listener)
}

// handlers returns the callbacks for kind in registration order.
func (d *dispatcher) handlers(kind Kind) []Handler {
	attached := d.listeners[kind]
	if len(attached) == 0 {
		return nil
	}
	out := make([]Handler, len(attached))
	for i, l := range attached {
		out[i] = l.fn
	}
	return out
}
