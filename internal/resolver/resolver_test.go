package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/inventory"
	"github.com/svcdash/svcdash/internal/logger"
)

var testHost = inventory.Host{Address: "web-1.example.com", Group: "web"}

func names(instances []Instance) []string {
	var out []string
	for _, inst := range instances {
		out = append(out, inst.Unit)
	}
	return out
}

func TestResolveDeterminism(t *testing.T) {
	r := New(logger.Noop())
	specs := []config.ServiceSpec{{Name: "web-*"}, {Name: "redis"}}
	discovered := []string{"web-2", "web-1", "postgres", "web-3"}

	first := r.Resolve(specs, testHost, discovered)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve(specs, testHost, discovered))
	}

	// Discovery order must not leak into the result either.
	shuffled := []string{"web-3", "postgres", "web-1", "web-2"}
	assert.Equal(t, first, r.Resolve(specs, testHost, shuffled))
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := New(logger.Noop())
	pattern := config.ServiceSpec{Name: "web-*", Commands: []string{"echo pattern"}}
	literal := config.ServiceSpec{Name: "web-1", Commands: []string{"echo literal"}}

	instances := r.Resolve([]config.ServiceSpec{pattern, literal}, testHost, []string{"web-1"})

	require.Len(t, instances, 1)
	assert.Equal(t, "web-1", instances[0].Unit)
	// The unit was claimed by the pattern, so it inherits the pattern's commands.
	assert.Equal(t, []string{"echo pattern"}, instances[0].Spec.Commands)
}

func TestResolveOrderNotSpecificity(t *testing.T) {
	r := New(logger.Noop())
	broad := config.ServiceSpec{Name: "*", Files: []string{"/etc/motd"}}
	narrow := config.ServiceSpec{Name: "web-?", Files: []string{"/etc/web.conf"}}

	instances := r.Resolve([]config.ServiceSpec{broad, narrow}, testHost, []string{"web-1"})

	require.Len(t, instances, 1)
	assert.Equal(t, []string{"/etc/motd"}, instances[0].Spec.Files)
}

func TestResolveLiteralMissStillEmits(t *testing.T) {
	r := New(logger.Noop())
	specs := []config.ServiceSpec{{Name: "redis", Files: []string{"/etc/redis.conf"}}}

	instances := r.Resolve(specs, testHost, []string{"nginx", "postgres"})

	require.Len(t, instances, 1)
	assert.Equal(t, "redis", instances[0].Unit)
	assert.Equal(t, []string{"/etc/redis.conf"}, instances[0].Spec.Files)
}

func TestResolveGlobZeroMatchSilent(t *testing.T) {
	r := New(logger.Noop())
	specs := []config.ServiceSpec{{Name: "docker-*"}}

	instances := r.Resolve(specs, testHost, []string{"nginx", "postgres"})
	assert.Empty(t, instances)
}

func TestResolveGlobExpansion(t *testing.T) {
	r := New(logger.Noop())
	spec := config.ServiceSpec{Name: "web-*", Commands: []string{"curl -s localhost"}}

	instances := r.Resolve([]config.ServiceSpec{spec}, testHost,
		[]string{"web-1", "nginx", "web-10", "web-2"})

	assert.Equal(t, []string{"web-1", "web-10", "web-2"}, names(instances))
	for _, inst := range instances {
		assert.Equal(t, spec.Commands, inst.Spec.Commands)
	}
}

func TestResolveGroupScoping(t *testing.T) {
	r := New(logger.Noop())
	specs := []config.ServiceSpec{
		{Name: "nginx", Groups: []string{"web"}},
		{Name: "postgres", Groups: []string{"db"}},
		{Name: "node_exporter"},
	}

	webInstances := r.Resolve(specs, inventory.Host{Address: "w1", Group: "web"}, nil)
	assert.Equal(t, []string{"nginx", "node_exporter"}, names(webInstances))

	dbInstances := r.Resolve(specs, inventory.Host{Address: "d1", Group: "db"}, nil)
	assert.Equal(t, []string{"postgres", "node_exporter"}, names(dbInstances))
}

func TestResolveDuplicateLiteralClaimedOnce(t *testing.T) {
	r := New(logger.Noop())
	specs := []config.ServiceSpec{
		{Name: "nginx", Commands: []string{"first"}},
		{Name: "nginx", Commands: []string{"second"}},
	}

	instances := r.Resolve(specs, testHost, []string{"nginx"})

	require.Len(t, instances, 1)
	assert.Equal(t, []string{"first"}, instances[0].Spec.Commands)
}

func TestResolveLogsShadowedUnits(t *testing.T) {
	buf := logger.NewBufferLogger()
	r := New(buf)
	specs := []config.ServiceSpec{{Name: "web-*"}, {Name: "web-1"}}

	r.Resolve(specs, testHost, []string{"web-1"})

	assert.True(t, buf.HasLevel("debug"))
}

func TestIsGlob(t *testing.T) {
	assert.False(t, IsGlob("nginx.service"))
	assert.True(t, IsGlob("web-*"))
	assert.True(t, IsGlob("db-?"))
	assert.True(t, IsGlob("cache-[ab]"))
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		unit    string
		want    bool
	}{
		{"nginx", "nginx", true},
		{"nginx", "nginx.service", false},
		{"web-*", "web-1", true},
		{"web-*", "web-", true},
		{"web-*", "aweb-1", false}, // anchored, not substring
		{"web-*", "web-1x", true},
		{"web-?", "web-1", true},
		{"web-?", "web-12", false},
		{"web-[12]", "web-1", true},
		{"web-[12]", "web-3", false},
		{"web-[!12]", "web-3", true},
		{"web-[!12]", "web-1", false},
		{"*.service", "nginx.service", true},
		{"*.service", "nginxXservice", false}, // dot is literal
		{"a[x", "a[x", true},                  // unterminated class is literal
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.unit, func(t *testing.T) {
			pat, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pat.Match(tt.unit))
		})
	}
}

func TestPatternLiteral(t *testing.T) {
	pat, err := Compile("nginx")
	require.NoError(t, err)
	assert.True(t, pat.IsLiteral())
	assert.Equal(t, "nginx", pat.Source())

	glob, err := Compile("web-*")
	require.NoError(t, err)
	assert.False(t, glob.IsLiteral())
}
