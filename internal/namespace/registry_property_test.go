package namespace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

var (
	segmentGen   = rapid.StringMatching(`[a-z][a-z0-9_-]{0,7}`)
	namespaceGen = rapid.StringMatching(`[a-z][a-z0-9-]{0,9}`)
	extGen       = rapid.SampledFrom([]string{".js", ".coffee", ".json", ".css"})
)

// caseDir returns a fresh canonical directory for a single rapid iteration.
func caseDir(t require.TestingT, base string) string {
	dir, err := os.MkdirTemp(base, "case-")
	require.NoError(t, err)
	dir, err = filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return dir
}

func drawRelFile(rt *rapid.T) []string {
	segments := rapid.SliceOfN(segmentGen, 0, 4).Draw(rt, "dirs")
	file := segmentGen.Draw(rt, "file") + extGen.Draw(rt, "ext")
	return append(segments, file)
}

func expectedSuffix(rel []string) string {
	joined := strings.Join(rel, "/")
	if strings.HasSuffix(joined, ".coffee") {
		joined = strings.TrimSuffix(joined, ".coffee") + ".js"
	}
	return joined
}

func TestProperty_FileUnderNamespaceResolvesUnderBase(t *testing.T) {
	base := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		root := caseDir(rt, base)
		ns := namespaceGen.Draw(rt, "namespace")
		override := rapid.SampledFrom([]string{"", "https://cdn.example/" + ns, "/static/" + ns}).Draw(rt, "override")
		rel := drawRelFile(rt)

		file := filepath.Join(append([]string{root, "ns"}, rel...)...)
		touch(rt, file)

		reg := New("/js", root)
		require.NoError(rt, reg.Register(ns, "ns", override))

		got, ok := reg.ResolveModulePath(file)
		require.True(rt, ok)

		wantBase := "/js/" + ns
		if override != "" {
			wantBase = override
		}
		require.Equal(rt, wantBase+"/"+expectedSuffix(rel), got)
	})
}

func TestProperty_FirstRegisteredWins(t *testing.T) {
	base := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		root := caseDir(rt, base)
		depth := rapid.IntRange(1, 3).Draw(rt, "depth")
		inner := []string{"outer"}
		for i := 0; i < depth; i++ {
			inner = append(inner, segmentGen.Draw(rt, "inner"))
		}
		rel := drawRelFile(rt)
		touch(rt, filepath.Join(append(append([]string{root}, inner...), rel...)...))

		innerPath := filepath.Join(inner...)
		outerFirst := rapid.Bool().Draw(rt, "outerFirst")

		reg := New("/js", root)
		if outerFirst {
			require.NoError(rt, reg.Register("outer", "outer", ""))
			require.NoError(rt, reg.Register("inner", innerPath, ""))
		} else {
			require.NoError(rt, reg.Register("inner", innerPath, ""))
			require.NoError(rt, reg.Register("outer", "outer", ""))
		}

		got, ok := reg.ResolveModulePath(filepath.Join(innerPath, filepath.Join(rel...)))
		require.True(rt, ok)
		if outerFirst {
			require.True(rt, strings.HasPrefix(got, "/js/outer/"), got)
		} else {
			require.True(rt, strings.HasPrefix(got, "/js/inner/"), got)
		}
	})
}

func TestProperty_ResolveIsIdempotent(t *testing.T) {
	base := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		root := caseDir(rt, base)
		rel := drawRelFile(rt)
		touch(rt, filepath.Join(append([]string{root, "app"}, rel...)...))

		reg := New("/js", root)
		require.NoError(rt, reg.Register("app", "app", ""))

		input := rapid.SampledFrom([]string{
			filepath.Join(append([]string{"app"}, rel...)...),
			filepath.Join("app", "missing.js"),
			"elsewhere",
		}).Draw(rt, "input")

		first, ok1 := reg.ResolveModulePath(input)
		second, ok2 := reg.ResolveModulePath(input)
		require.Equal(rt, ok1, ok2)
		require.Equal(rt, first, second)
	})
}

func TestProperty_NoRepeatedSeparators(t *testing.T) {
	base := t.TempDir()
	slashes := rapid.SampledFrom([]string{"/", "//", "///", `\`, `\\`, `/\`})
	rapid.Check(t, func(rt *rapid.T) {
		root := caseDir(rt, base)
		rel := drawRelFile(rt)
		touch(rt, filepath.Join(append([]string{root, "app"}, rel...)...))

		basePath := slashes.Draw(rt, "lead") + "js" + slashes.Draw(rt, "trail")
		override := ""
		if rapid.Bool().Draw(rt, "useOverride") {
			override = slashes.Draw(rt, "o1") + "static" + slashes.Draw(rt, "o2") + "app" + slashes.Draw(rt, "o3")
		}

		reg := New(basePath, root)
		require.NoError(rt, reg.Register("app", "app", override))

		got, ok := reg.ResolveModulePath(filepath.Join(append([]string{"app"}, rel...)...))
		require.True(rt, ok)
		require.NotContains(rt, got, "//")
		require.NotContains(rt, got, `\`)
	})
}

func TestProperty_MissingPathLeavesTableUnchanged(t *testing.T) {
	base := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		root := caseDir(rt, base)
		touch(rt, filepath.Join(root, "app", "main.js"))

		reg := New("/js", root)
		require.NoError(rt, reg.Register("app", "app", ""))
		before := reg.Namespaces()

		missing := "missing-" + segmentGen.Draw(rt, "missing")
		err := reg.Register(namespaceGen.Draw(rt, "namespace"), missing, "")
		require.ErrorIs(rt, err, ErrPathNotFound)
		require.Equal(rt, before, reg.Namespaces())
	})
}
