package engine

// PointerEvent is a cursor position in normalized device coordinates,
// x and y in [-1, 1] with y up. Leave is set when the cursor left the view.
type PointerEvent struct {
	X, Y  float64
	Leave bool
}

// ClickEvent is a primary-button press in normalized device coordinates.
type ClickEvent struct {
	X, Y float64
}

// ScrollEvent reports the page offset and the total scrollable extent, in
// the host's own units.
type ScrollEvent struct {
	Offset, Extent float64
}

// ResizeEvent is the new viewport size in the host's pixels.
type ResizeEvent struct {
	Width, Height int
}

// ImpulseEvent raises turbulence directly, without a scroll.
type ImpulseEvent struct {
	Strength float64
}

// InputSource delivers host input. Each On* call returns a function that
// removes the handler.
type InputSource interface {
	OnPointer(func(PointerEvent)) (unsubscribe func())
	OnScroll(func(ScrollEvent)) (unsubscribe func())
	OnClick(func(ClickEvent)) (unsubscribe func())
	OnResize(func(ResizeEvent)) (unsubscribe func())
}

// ImpulseSource is implemented by sources that can also kick turbulence.
type ImpulseSource interface {
	OnImpulse(func(ImpulseEvent)) (unsubscribe func())
}

type handlers[E any] struct {
	next int
	fns  []handler[E]
}

type handler[E any] struct {
	id int
	fn func(E)
}

func (h *handlers[E]) add(fn func(E)) func() {
	h.next++
	id := h.next
	h.fns = append(h.fns, handler[E]{id: id, fn: fn})
	return func() {
		for i, x := range h.fns {
			if x.id == id {
				h.fns = append(h.fns[:i:i], h.fns[i+1:]...)
				return
			}
		}
	}
}

func (h *handlers[E]) emit(e E) {
	for _, x := range append([]handler[E](nil), h.fns...) {
		x.fn(e)
	}
}

// Bus is an in-memory InputSource. Hosts publish into it from their event
// loop; it is not safe for concurrent use.
type Bus struct {
	pointer handlers[PointerEvent]
	click   handlers[ClickEvent]
	scroll  handlers[ScrollEvent]
	resize  handlers[ResizeEvent]
	impulse handlers[ImpulseEvent]
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) OnPointer(fn func(PointerEvent)) func() { return b.pointer.add(fn) }
func (b *Bus) OnClick(fn func(ClickEvent)) func()     { return b.click.add(fn) }
func (b *Bus) OnScroll(fn func(ScrollEvent)) func()   { return b.scroll.add(fn) }
func (b *Bus) OnResize(fn func(ResizeEvent)) func()   { return b.resize.add(fn) }
func (b *Bus) OnImpulse(fn func(ImpulseEvent)) func() { return b.impulse.add(fn) }

func (b *Bus) Pointer(e PointerEvent) { b.pointer.emit(e) }
func (b *Bus) Click(e ClickEvent)     { b.click.emit(e) }
func (b *Bus) Scroll(e ScrollEvent)   { b.scroll.emit(e) }
func (b *Bus) Resize(e ResizeEvent)   { b.resize.emit(e) }

// Kick publishes a turbulence impulse.
func (b *Bus) Kick(strength float64) { b.impulse.emit(ImpulseEvent{Strength: strength}) }

// Subscribers counts registered handlers across all event kinds.
func (b *Bus) Subscribers() int {
	return len(b.pointer.fns) + len(b.click.fns) + len(b.scroll.fns) + len(b.resize.fns) + len(b.impulse.fns)
}
