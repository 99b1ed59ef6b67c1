package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Capabilities describe which optional command features the installed git
// supports. Probed once at startup; the engine branches its command
// construction on the result rather than re-detecting per call.
type Capabilities struct {
	// CheckAttrCached is true when `git check-attr --cached` is available
	// (git >= 1.7.8). Older versions fall back to working-copy attribute
	// resolution, which is equivalent but slower and can disagree with the
	// index when .gitattributes itself is modified.
	CheckAttrCached bool
}

var versionRE = regexp.MustCompile(`(\d+(?:\.\d+)+)`)

// checkAttrCachedMin is the first version whose check-attr knows --cached.
var checkAttrCachedMin = []int{1, 7, 8}

// Capabilities probes `git --version`. A version string that cannot be
// parsed is fatal; guessing capabilities would risk constructing commands
// the binary rejects mid-evaluation.
func (r *Runner) Capabilities(ctx context.Context) (Capabilities, error) {
	out, err := r.run(ctx, nil, nil, "--version")
	if err != nil {
		return Capabilities{}, err
	}
	v, err := parseVersion(string(out))
	if err != nil {
		return Capabilities{}, err
	}
	return Capabilities{
		CheckAttrCached: compareVersions(v, checkAttrCachedMin) >= 0,
	}, nil
}

func parseVersion(out string) ([]int, error) {
	m := versionRE.FindString(out)
	if m == "" {
		return nil, fmt.Errorf("could not read git version from %q", strings.TrimSpace(out))
	}
	parts := strings.Split(m, ".")
	v := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("could not read git version from %q", strings.TrimSpace(out))
		}
		v[i] = n
	}
	return v, nil
}

// compareVersions orders dotted version slices; missing components count
// as zero, so 1.7 < 1.7.8 < 1.8.
func compareVersions(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
