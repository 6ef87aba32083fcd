package manifest

import "fmt"

// Migration is one datastore transition step. Steps are declarative facts
// supplied by a release description; the set is replaced wholesale and never
// merged, and nothing checks that the steps form a connected chain.
type Migration struct {
	From DataVersion `json:"from" yaml:"from"`
	To   DataVersion `json:"to" yaml:"to"`
	Name string      `json:"name" yaml:"name"`
}

func (s Migration) String() string {
	return fmt.Sprintf("%s (%s -> %s)", s.Name, s.From.String(), s.To.String())
}

// MigrationPath plans the ordered steps taking a datastore from one version
// to another, in either direction. Each hop takes the step reaching farthest
// toward the target without overshooting it. An empty path (from == to) is
// not an error.
func MigrationPath(from, to DataVersion, steps []Migration) ([]Migration, error) {
	if from == to {
		return nil, nil
	}
	forward := from.LessThan(to)
	var path []Migration
	current := from
	for current != to {
		best := -1
		for i, s := range steps {
			if s.From != current || !progresses(current, s.To, to) {
				continue
			}
			if best < 0 || farther(s.To, steps[best].To, forward) {
				best = i
			}
		}
		if best < 0 {
			return nil, fmt.Errorf("stuck at %s on the way from %s to %s: %w",
				current.String(), from.String(), to.String(), ErrNoMigrationPath)
		}
		path = append(path, steps[best])
		current = steps[best].To
	}
	return path, nil
}

// progresses reports whether moving from current to next heads toward target
// without passing it.
func progresses(current, next, target DataVersion) bool {
	if current.LessThan(target) {
		return current.LessThan(next) && !target.LessThan(next)
	}
	return next.LessThan(current) && !next.LessThan(target)
}

// farther reports whether a reaches beyond b in the walk direction.
func farther(a, b DataVersion, forward bool) bool {
	if forward {
		return b.LessThan(a)
	}
	return a.LessThan(b)
}
