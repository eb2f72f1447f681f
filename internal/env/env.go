// Package env composes a child process's environment from the host's own
// environment and a per-process override map, honoring "null value means
// unset" and performing a single pass of ${VAR} expansion.
package env

import (
	"os"
	"strings"
)

// Var is a plain string-keyed environment map used for the OS base and for
// expansion.
type Var map[string]string

// FromOS snapshots the current process environment.
func FromOS() Var {
	base := make(Var)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			if k := kv[:i]; k != "" {
				base[k] = kv[i+1:]
			}
		}
	}
	return base
}

// Merge composes the final "K=V" environment slice for a child process.
// base is typically FromOS(); overrides is a ResolvedProcess's Environment
// map where a nil value means the variable must be absent from the child
// even if base defines it, and a non-nil value overrides base. After
// merging, every value is expanded once against the composed map for
// ${VAR} references; expansion does not recurse.
func Merge(base Var, overrides map[string]*string) []string {
	m := make(Var, len(base)+len(overrides))
	for k, v := range base {
		m[k] = v
	}
	for k, v := range overrides {
		if k == "" {
			continue
		}
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = *v
	}

	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+expand(v, m))
	}
	return out
}

func expand(s string, m Var) string {
	pairs := make([]string, 0, 2*len(m))
	for k, v := range m {
		pairs = append(pairs, "${"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
