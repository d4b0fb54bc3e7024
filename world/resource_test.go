package world_test

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
	"pkg.world.dev/world-engine/assert"

	"pkg.world.dev/world-engine/ecs/change"
	"pkg.world.dev/world-engine/ecs/types"
	"pkg.world.dev/world-engine/ecs/world"
)

var errBoom = eris.New("boom")

func TestResourceRoundTrip(t *testing.T) {
	w := world.New()
	world.InsertResource(w, Counter{})
	c := w.AsCell()

	t1 := c.ChangeTick()
	m, ok := world.GetResourceMut[Counter](c)
	require.True(t, ok)
	m.Set(Counter{Value: 1})

	ref, ok := world.GetResourceRef[Counter](c)
	require.True(t, ok)
	assert.Equal(t, Counter{Value: 1}, ref.Value())
	assert.Equal(t, t1, ref.LastChanged())

	c.IncrementChangeTick()
	t2 := c.ChangeTick()
	m, ok = world.GetResourceMut[Counter](c)
	require.True(t, ok)
	m.Set(Counter{Value: 2})

	ref, ok = world.GetResourceRef[Counter](c)
	require.True(t, ok)
	assert.Equal(t, Counter{Value: 2}, ref.Value())
	assert.Equal(t, t2, ref.LastChanged())
	assert.Check(t, t2 != t1)
}

func TestResourceAbsence(t *testing.T) {
	w := world.New()
	c := w.AsCell()

	_, ok := world.GetResource[Counter](c)
	assert.Check(t, !ok, "unregistered resource")

	world.RegisterResource[Counter](w)
	_, ok = world.GetResource[Counter](c)
	assert.Check(t, !ok, "registered but never inserted")
	_, ok = world.GetResourceRef[Counter](c)
	assert.Check(t, !ok)
	_, ok = world.GetResourceMut[Counter](c)
	assert.Check(t, !ok)
	_, ok = c.GetResourceByID(types.ComponentID(1234))
	assert.Check(t, !ok)

	world.InsertResource(w, Counter{Value: 1})
	_, ok = world.RemoveResource[Counter](w)
	assert.Check(t, ok)
	_, ok = world.GetResource[Counter](c)
	assert.Check(t, !ok, "removed")
}

func TestResourceByID(t *testing.T) {
	w := world.New()
	world.InsertResource(w, Settings{Volume: 7})
	id := world.RegisterResource[Settings](w)
	c := w.AsCell()

	ptr, ok := c.GetResourceByID(id)
	require.True(t, ok)
	assert.Equal(t, 7, change.Deref[Settings](ptr).Volume)

	_, cells, _, ok := c.GetResourceWithTicks(id)
	require.True(t, ok)
	assert.Equal(t, types.NewComponentTicks(1), cells.Read())

	c.IncrementChangeTick()
	m, ok := c.GetResourceMutByID(id)
	require.True(t, ok)
	m.Value().FieldByName("Volume").SetInt(9)

	settings, ok := world.GetResource[Settings](c)
	require.True(t, ok)
	assert.Equal(t, 9, settings.Volume)
	_, cells, _, _ = c.GetResourceWithTicks(id)
	assert.Equal(t, types.Tick(2), *cells.Changed)
}

func TestReadingResourceLeavesChangedTick(t *testing.T) {
	w := world.New()
	world.InsertResource(w, Counter{Value: 1})
	w.ClearTrackers()
	c := w.AsCell()

	m, ok := world.GetResourceMut[Counter](c)
	require.True(t, ok)
	assert.Equal(t, 1, m.Read().Value)
	assert.Check(t, !m.IsChanged())

	ref, _ := world.GetResourceRef[Counter](c)
	assert.Equal(t, types.Tick(1), ref.LastChanged())
}

func TestInitResourceKeepsExistingValue(t *testing.T) {
	w := world.New()
	world.InsertResource(w, Counter{Value: 4})
	world.InitResource[Counter](w)
	counter, _ := world.GetResource[Counter](w.AsCell())
	assert.Equal(t, 4, counter.Value)

	world.InitResource[Settings](w)
	settings, ok := world.GetResource[Settings](w.AsCell())
	assert.Check(t, ok)
	assert.Equal(t, 0, settings.Volume)
}

func TestNonSendResourceOnInsertingGoroutine(t *testing.T) {
	w := world.New()
	world.InsertNonSendResource(w, Counter{Value: 1})
	c := w.AsCell()

	_, ok := world.GetResource[Counter](c)
	assert.Check(t, !ok, "non-send resources are not visible as send resources")

	m, ok := world.GetNonSendResourceMut[Counter](c)
	require.True(t, ok)
	m.Set(Counter{Value: 5})

	ref, ok := world.GetNonSendResourceRef[Counter](c)
	require.True(t, ok)
	assert.Equal(t, 5, ref.Value().Value)

	removed, ok := world.RemoveNonSendResource[Counter](w)
	require.True(t, ok)
	assert.Equal(t, 5, removed.Value)
}

func TestNonSendResourcePanicsOnOtherGoroutine(t *testing.T) {
	w := world.New()
	world.InsertNonSendResource(w, Counter{Value: 1})
	c := w.AsCell()
	id := world.RegisterResource[Counter](w)

	accessors := map[string]func(){
		"typed":     func() { world.GetNonSendResource[Counter](c) },
		"ref":       func() { world.GetNonSendResourceRef[Counter](c) },
		"mut":       func() { world.GetNonSendResourceMut[Counter](c) },
		"by id":     func() { c.GetNonSendResourceByID(id) },
		"with tick": func() { c.GetNonSendWithTicks(id) },
	}
	for name, access := range accessors {
		t.Run(name, func(t *testing.T) {
			recovered := make(chan any, 1)
			go func() {
				defer func() { recovered <- recover() }()
				access()
			}()
			r := <-recovered
			require.NotNil(t, r)
			msg, ok := r.(string)
			require.True(t, ok)
			assert.Check(t, strings.Contains(msg, "non-send resource"))
		})
	}
}

func TestDefaultErrorHandlerFallsBackToPanic(t *testing.T) {
	w := world.New()
	c := w.AsCell()
	handler := c.DefaultErrorHandler()
	assert.Panics(t, func() { handler(errBoom, world.ErrorContext{Kind: "command"}) })

	var handled []error
	world.InsertResource(w, world.DefaultErrorHandler{Handler: func(err error, _ world.ErrorContext) {
		handled = append(handled, err)
	}})
	c.DefaultErrorHandler()(errBoom, world.ErrorContext{})
	assert.Equal(t, 1, len(handled))
}
