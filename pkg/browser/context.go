package browser

import "sync"

// Context is a named browsing context with its session history.
type Context struct {
	name string

	mu      sync.RWMutex
	history []Document
	index   int
}

func newContext(name string) *Context {
	return &Context{name: name, index: -1}
}

// Name returns the context name.
func (c *Context) Name() string {
	return c.name
}

// Document returns the current document, if any.
func (c *Context) Document() (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index < 0 {
		return Document{}, false
	}
	return c.history[c.index], true
}

// History returns the session history, oldest first.
func (c *Context) History() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Document(nil), c.history...)
}

// Back steps to the previous history entry.
func (c *Context) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index <= 0 {
		return false
	}
	c.index--
	return true
}

// Forward steps to the next history entry.
func (c *Context) Forward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= len(c.history)-1 {
		return false
	}
	c.index++
	return true
}

// push appends doc after the current entry, dropping any forward entries.
func (c *Context) push(doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history[:c.index+1], doc)
	c.index = len(c.history) - 1
}
