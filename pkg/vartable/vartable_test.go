package vartable_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/kataras/chili-themer/pkg/vartable"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTable(t *testing.T, opts ...vartable.Option) (*vartable.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return vartable.NewRedisFromClient(client, opts...), mr
}

// runTableContract checks the behavior every Table must share.
func runTableContract(t *testing.T, table vartable.Table) {
	ctx := context.Background()

	name, loaded, err := table.LoadOrStore(ctx, "Hello", "aaaa1111")
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, "aaaa1111", name)

	name, loaded, err = table.LoadOrStore(ctx, "Hello", "bbbb2222")
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "aaaa1111", name, "existing name must be reused")

	name, loaded, err = table.LoadOrStore(ctx, "hello", "cccc3333")
	require.NoError(t, err)
	assert.False(t, loaded, "matching is case sensitive")
	assert.Equal(t, "cccc3333", name)

	vars, err := table.Variables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []vartable.Variable{
		{Value: "Hello", Name: "aaaa1111"},
		{Value: "hello", Name: "cccc3333"},
	}, vars)
}

func TestMemory_Contract(t *testing.T) {
	runTableContract(t, vartable.NewMemory())
}

func TestRedis_Contract(t *testing.T) {
	table, _ := newRedisTable(t)
	runTableContract(t, table)
}

func TestMemory_Concurrent(t *testing.T) {
	table := vartable.NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	names := make([]string, 16)
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name, _, err := table.LoadOrStore(ctx, "shared", string(rune('a'+i)))
			assert.NoError(t, err)
			names[i] = name
		}(i)
	}
	wg.Wait()

	for _, name := range names {
		assert.Equal(t, names[0], name)
	}
	assert.Equal(t, 1, table.Len())
}

func TestRedis_Prefix(t *testing.T) {
	table, mr := newRedisTable(t, vartable.WithPrefix("custom:"))

	_, _, err := table.LoadOrStore(context.Background(), "v", "n")
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:names"))
	assert.True(t, mr.Exists("custom:order"))
	assert.Equal(t, "n", mr.HGet("custom:names", "v"))
}

func TestRedis_SharedAcrossClients(t *testing.T) {
	first, mr := newRedisTable(t)
	second := vartable.NewRedisFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	_, _, err := first.LoadOrStore(ctx, "Footer", "11112222")
	require.NoError(t, err)

	name, loaded, err := second.LoadOrStore(ctx, "Footer", "33334444")
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "11112222", name)
}

func TestRedis_EmptyVariables(t *testing.T) {
	table, _ := newRedisTable(t)

	vars, err := table.Variables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vars)
}
