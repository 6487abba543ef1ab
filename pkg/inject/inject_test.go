package inject

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContainer is a minimal lazy singleton container
type testContainer struct {
	factories map[reflect.Type]func(Resolver) any
	instances map[reflect.Type]any
	calls     map[reflect.Type]int
}

func newTestContainer() *testContainer {
	return &testContainer{
		factories: make(map[reflect.Type]func(Resolver) any),
		instances: make(map[reflect.Type]any),
		calls:     make(map[reflect.Type]int),
	}
}

func (c *testContainer) BindSingleton(t reflect.Type, factory func(Resolver) any) {
	c.factories[t] = factory
}

func (c *testContainer) Resolve(t reflect.Type) (any, error) {
	if v, ok := c.instances[t]; ok {
		return v, nil
	}
	factory, ok := c.factories[t]
	if !ok {
		return nil, fmt.Errorf("no binding for %s", t)
	}
	c.calls[t]++
	v := factory(c)
	c.instances[t] = v
	return v, nil
}

type Bar struct{ Name string }

type Foo struct{ Bar *Bar }

type fooModule struct{}

func (fooModule) Register(b Binder) {
	Single[*Bar](b, func(r Resolver) *Bar { return &Bar{Name: "bar"} })
	Single[*Foo](b, func(r Resolver) *Foo { return &Foo{Bar: Get[*Bar](r)} })
}

func TestSingleAndGet(t *testing.T) {
	c := newTestContainer()
	fooModule{}.Register(c)

	foo := Get[*Foo](c)
	require.NotNil(t, foo)
	assert.Equal(t, "bar", foo.Bar.Name)
	assert.Same(t, foo.Bar, Get[*Bar](c))
	assert.Same(t, foo, Get[*Foo](c))
	assert.Equal(t, 1, c.calls[reflect.TypeFor[*Bar]()])
}

func TestGet_Variadic(t *testing.T) {
	c := newTestContainer()
	Single[[]string](c, func(r Resolver) []string { return []string{"a", "b"} })

	join := func(parts ...string) int { return len(parts) }
	assert.Equal(t, 2, join(Get[[]string](c)...))
}

func TestGet_MissingBindingPanics(t *testing.T) {
	c := newTestContainer()

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		var resolveErr *ResolveError
		require.True(t, errors.As(err, &resolveErr))
		assert.Equal(t, reflect.TypeFor[*Foo](), resolveErr.Type)
		assert.Contains(t, err.Error(), "no binding")
	}()
	Get[*Foo](c)
}

func TestGet_WrongTypePanics(t *testing.T) {
	c := newTestContainer()
	c.BindSingleton(reflect.TypeFor[*Foo](), func(Resolver) any { return "not a foo" })

	assert.Panics(t, func() { Get[*Foo](c) })
}

func TestRegisterModule(t *testing.T) {
	before := len(Modules())
	RegisterModule(fooModule{})
	assert.Len(t, Modules(), before+1)

	c := newTestContainer()
	Install(c)
	assert.Equal(t, "bar", Get[*Foo](c).Bar.Name)
}
