package view

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"bizdesk/internal/core/apperror"
)

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error

	programs = newProgramCache(maxCachedPrograms)
)

// maxCachedPrograms bounds the number of compiled expressions kept in memory.
const maxCachedPrograms = 256

type program struct {
	src string
	prg cel.Program
}

func celEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return env, envErr
}

// ValidateExpr reports whether src is a well-formed boolean expression.
func ValidateExpr(src string) error {
	_, err := compileExpr(src)
	return err
}

func compileExpr(src string) (*program, error) {
	if p, ok := programs.get(src); ok {
		return p, nil
	}

	e, err := celEnv()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("cel env: %w", err))
	}
	ast, iss := e.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expr", src).
			WithDetail("reason", iss.Err().Error())
	}
	prg, err := e.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expr", src).
			WithCause(err)
	}

	p := &program{src: src, prg: prg}
	programs.put(p)
	return p, nil
}

func (p *program) eval(rec map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{"record": rec})
	if err != nil {
		return false, apperror.NewValidation("filter expression failed").
			WithDetail("expr", p.src).
			WithCause(err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewValidation("filter expression must be boolean").
			WithDetail("expr", p.src)
	}
	return b, nil
}

// programCache keeps the most recently used compiled programs. cel.Program is
// safe for concurrent use, so entries are shared between requests.
type programCache struct {
	mu    sync.Mutex
	max   int
	order *list.List
	items map[string]*list.Element
}

func newProgramCache(limit int) *programCache {
	return &programCache{max: limit, order: list.New(), items: make(map[string]*list.Element)}
}

func (c *programCache) get(src string) (*program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[src]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*program), true
}

func (c *programCache) put(p *program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[p.src]; ok {
		el.Value = p
		c.order.MoveToFront(el)
		return
	}
	c.items[p.src] = c.order.PushFront(p)
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*program).src)
	}
}

func (c *programCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
