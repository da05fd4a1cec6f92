package scssbuild

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/scssbuild/internal/sass"
)

func TestConfigRegistryStartsNull(t *testing.T) {
	r := NewConfigRegistry()
	assert.Nil(t, r.Get())

	v, err := r.Accessor()(nil)
	require.NoError(t, err)
	assert.Equal(t, sass.Null{}, v)
}

func TestConfigRegistrySetAndGet(t *testing.T) {
	r := NewConfigRegistry()
	site := map[string]any{"title": "Hi"}
	r.Set(site)
	assert.Equal(t, site, r.Get())

	r.Set(nil)
	assert.Nil(t, r.Get())
}

func TestConfigAccessorBridgesSnapshot(t *testing.T) {
	r := NewConfigRegistry()
	r.Set(map[string]any{"title": "Hi", "count": 3.0})

	v, err := r.Accessor()([]sass.Value{})
	require.NoError(t, err)

	m, ok := v.(*sass.Map)
	require.True(t, ok)
	title, ok := m.Get(sass.String{Text: "title", Quoted: true})
	require.True(t, ok)
	assert.Equal(t, sass.String{Text: "Hi", Quoted: true}, title)
}

func TestConfigAccessorRejectsArguments(t *testing.T) {
	r := NewConfigRegistry()
	_, err := r.Accessor()([]sass.Value{sass.Number{Value: 1}, sass.Null{}})
	require.EqualError(t, err, "Only 0 arguments allowed, but 2 were passed.")
}

func TestConfigRegistryConcurrentReads(t *testing.T) {
	r := NewConfigRegistry()
	r.Set(map[string]any{"n": 1.0})
	accessor := r.Accessor()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := accessor(nil); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestConfigAccessorInStylesheet(t *testing.T) {
	r := NewConfigRegistry()
	r.Set(map[string]any{"title": "Hi", "count": 3.0, "tags": []any{"a", "b"}})

	css, err := sass.CompileString(
		`.a { content: map-get(site_config(), "title"); width: map.get(site-config(), "count"); tag: nth(map-get(site-config(), "tags"), 2); }`,
		sass.Options{Functions: map[string]sass.Function{ConfigFunctionName: r.Accessor()}},
	)
	require.NoError(t, err)
	assert.Equal(t, `.a{content:"Hi";width:3;tag:"b"}`, css)
}
