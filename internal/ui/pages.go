package ui

import (
	"fmt"

	"github.com/derailed/tview"

	"github.com/evcon/evcon/internal/model"
)

// Pages represents a stack of view pages.
type Pages struct {
	*tview.Pages
	*model.Stack
}

// NewPages returns a new pages manager.
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: model.NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// Current returns the top component.
func (p *Pages) Current() Component {
	c, _ := p.Top().(Component)
	return c
}

// StackSize returns the stack depth.
func (p *Pages) StackSize() int {
	return len(p.Flatten())
}

// StackPushed notifies a new page was added.
func (p *Pages) StackPushed(c model.Component) {
	if prim, ok := c.(tview.Primitive); ok {
		p.AddPage(componentID(c), prim, true, true)
	}
}

// StackPopped notifies a page was removed.
func (p *Pages) StackPopped(o, _ model.Component) {
	p.RemovePage(componentID(o))
}

// StackTop notifies the top page of the stack.
func (p *Pages) StackTop(top model.Component) {
	if top == nil {
		return
	}
	p.SwitchToPage(componentID(top))
}

func componentID(c model.Component) string {
	return fmt.Sprintf("%s-%p", c.Name(), c)
}
