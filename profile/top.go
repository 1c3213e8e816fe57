package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/pprof/profile"
)

// Top returns a report similar to the pprof top command: one line per
// function, sorted by flat sample count.
func (p *Profile) Top() string {
	type node struct {
		fn   *profile.Function
		line int64
		flat int64
		cum  int64
	}
	nodes := make(map[*profile.Function]*node)

	var total int64
	for _, s := range p.pprof.Sample {
		total += s.Value[0]
		seen := make(map[*profile.Function]bool)
		for i, loc := range s.Location {
			if len(loc.Line) == 0 {
				continue
			}
			fn := loc.Line[0].Function
			n, ok := nodes[fn]
			if !ok {
				n = &node{fn: fn, line: loc.Line[0].Line}
				nodes[fn] = n
			}
			// Location[0] is the leaf
			if i == 0 {
				n.flat += s.Value[0]
			}
			if !seen[fn] {
				n.cum += s.Value[0]
				seen[fn] = true
			}
		}
	}

	list := make([]*node, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].flat != list[j].flat {
			return list[i].flat > list[j].flat
		}
		if list[i].cum != list[j].cum {
			return list[i].cum > list[j].cum
		}
		return list[i].fn.Name < list[j].fn.Name
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Showing nodes accounting for %d, 100%% of %d total\n", total, total)
	sb.WriteString("      flat  flat%   sum%        cum   cum%\n")
	var sum int64
	for _, n := range list {
		sum += n.flat
		fmt.Fprintf(&sb, "%10d %6.2f%% %6.2f%% %10d %6.2f%%  %s %s:%d\n",
			n.flat, percent(n.flat, total), percent(sum, total),
			n.cum, percent(n.cum, total),
			n.fn.Name, shortFile(n.fn.Filename), n.line)
	}
	return sb.String()
}

func percent(v, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(v) * 100 / float64(total)
}

// shortFile trims a source path to its last two elements, the way pprof
// reports do.
func shortFile(f string) string {
	fe := strings.Split(f, "/")
	if len(fe) <= 2 {
		return f
	}
	return strings.Join(fe[len(fe)-2:], "/")
}
