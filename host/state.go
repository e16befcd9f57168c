package host

import (
	"sync"

	"github.com/carlospion/AvocadoLegal/widget"
)

//StateCache keeps the latest RenderState emitted by the widget state
//machine so HTTP clients can read the current view at any time
type StateCache struct {
	mu     sync.Mutex
	latest widget.RenderState
}

//Renderer returns a widget.Renderer that stores every emitted state
func (c *StateCache) Renderer() widget.Renderer {
	return func(rs widget.RenderState) {
		c.mu.Lock()
		c.latest = rs
		c.mu.Unlock()
	}
}

//Latest returns the most recently emitted RenderState
func (c *StateCache) Latest() widget.RenderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}
