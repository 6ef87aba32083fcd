package manifest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/expr-lang/expr"
)

// FilterInfo is the flattened view of an Update that filter expressions
// evaluate against.
type FilterInfo struct {
	Variant    string
	Arch       string
	Version    string    // image version as a string, compared via vercmp
	MaxVersion string    // group ceiling as a string, compared via vercmp
	Datastore  string    // datastore version as a string, compared via dvcmp
	Waves      int       // number of scheduled waves
	FirstStart time.Time // start of the lowest-bound wave
	LastStart  time.Time // start of the highest-bound wave
}

var (
	// versionRe rewrites semantic version comparisons into vercmp calls so
	// 1.10.0 orders after 1.9.0 instead of before it lexically.
	versionRe = regexp.MustCompile(`\b(?i)(version|max_version)\s*(==|!=|<=|>=|<|>)\s*v?([0-9]+\.[0-9]+\.[0-9]+[0-9A-Za-z+.-]*)`)
	// datastoreRe accepts a bare major ("1") as well as major.minor ("1.0").
	datastoreRe = regexp.MustCompile(`\b(?i)(datastore)\s*(==|!=|<=|>=|<|>)\s*v?([0-9]+(?:\.[0-9]+)?)\b`)
	timeRe      = regexp.MustCompile(`\b(?i)(first_start|last_start)\s*(<=|>=|<|>)\s*([0-9]+(?:\.[0-9]+)?[smhdMyw]+)\b`)
	identRe     = regexp.MustCompile(`\b(?i)(variant|arch|version|max_version|datastore|waves|first_start|last_start)\b`)
	fieldMap    = map[string]string{
		"variant": "Variant", "arch": "Arch",
		"version": "Version", "max_version": "MaxVersion",
		"datastore": "Datastore", "waves": "Waves",
		"first_start": "FirstStart", "last_start": "LastStart",
	}
)

const FilterHelp = "Filter updates by expression: fields(variant/arch <string>, " +
	"version/max_version <semver[like 1.2.3]>, datastore <version[like 1.0]>, waves <int>, " +
	"first_start/last_start <age[like 36h, 14d, 1y]>); operators(==,!=,<,>,<=,>=); " +
	"helpers(glob([variant|arch], pattern), regex([variant|arch], pattern)); logic(and|or|not); " +
	"Example: --filter=\"variant == 'aws-k8s' and version > 1.2.0 and waves == 0\""

type UpdateFilter func(Update) (bool, error)

// CompileFilter turns a DSL expression into a filter function.
func CompileFilter(query string) (UpdateFilter, error) {
	q := preprocessDSL(query)

	prog, err := expr.Compile(q,
		expr.Env(FilterInfo{}),
		expr.Function("ago", func(params ...any) (any, error) { return ago(params[0].(string)) }),
		expr.Function("now", func(params ...any) (any, error) { return time.Now(), nil }),
		expr.Function("glob", func(params ...any) (any, error) { return globMatch(params[0].(string), params[1].(string)) }),
		expr.Function("regex", func(params ...any) (any, error) { return regexMatch(params[0].(string), params[1].(string)) }),
		expr.Function("vercmp", func(params ...any) (any, error) { return vercmp(params[0].(string), params[1].(string)) }),
		expr.Function("dvcmp", func(params ...any) (any, error) { return dvcmp(params[0].(string), params[1].(string)) }),
	)
	if err != nil {
		return nil, err
	}

	return func(u Update) (bool, error) {
		out, err := expr.Run(prog, newFilterInfo(&u))
		if err != nil {
			return false, fmt.Errorf("filter eval %q on %s: %w", query, u.Name(), err)
		}
		result, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("filter expression resulted in a non-boolean value of type %T. Make sure your filter is a valid comparison (e.g., 'version > 1.2.0')", out)
		}

		return result, nil
	}, nil
}

func newFilterInfo(u *Update) FilterInfo {
	fi := FilterInfo{
		Variant:    u.Variant,
		Arch:       u.Arch,
		Version:    u.Version.String(),
		MaxVersion: u.MaxVersion.String(),
		Datastore:  u.DatastoreVersion.String(),
		Waves:      len(u.Waves),
	}
	if len(u.Waves) > 0 {
		fi.FirstStart = u.Waves[0].Start
		fi.LastStart = u.Waves[len(u.Waves)-1].Start
	}
	return fi
}

// preprocessDSL applies the DSL→Go rewrites: version comparisons become
// vercmp/dvcmp calls, wave ages become time shifts, and friendly field names
// become FilterInfo fields.
func preprocessDSL(q string) string {
	q = versionRe.ReplaceAllStringFunc(q, func(m string) string {
		parts := versionRe.FindStringSubmatch(m)
		f, op, val := strings.ToLower(parts[1]), parts[2], parts[3]
		return fmt.Sprintf("vercmp(%s, %q) %s 0", fieldMap[f], val, op)
	})
	q = datastoreRe.ReplaceAllStringFunc(q, func(m string) string {
		parts := datastoreRe.FindStringSubmatch(m)
		f, op, val := strings.ToLower(parts[1]), parts[2], parts[3]
		return fmt.Sprintf("dvcmp(%s, %q) %s 0", fieldMap[f], val, op)
	})
	// first_start > 14d reads "started more than 14 days ago", so the
	// operator flips around the ago() shift.
	q = timeRe.ReplaceAllStringFunc(q, func(m string) string {
		parts := timeRe.FindStringSubmatch(m)
		f, op, val := strings.ToLower(parts[1]), parts[2], parts[3]
		switch op {
		case ">":
			op = "<"
		case "<":
			op = ">"
		case ">=":
			op = "<="
		case "<=":
			op = ">="
		}
		return fmt.Sprintf("%s %s ago(%q)", fieldMap[f], op, val)
	})
	q = identRe.ReplaceAllStringFunc(q, func(s string) string {
		if goF, ok := fieldMap[strings.ToLower(s)]; ok {
			return goF
		}
		return s
	})
	return q
}

func vercmp(a, b string) (int, error) {
	av, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", a, err)
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", b, err)
	}
	return av.Compare(*bv), nil
}

func dvcmp(a, b string) (int, error) {
	av, err := ParseDataVersion(a)
	if err != nil {
		return 0, err
	}
	bv, err := ParseDataVersion(b)
	if err != nil {
		return 0, err
	}
	return av.Compare(bv), nil
}

// ago returns time.Now() minus parsed duration.
func ago(durationStr string) (time.Time, error) {
	d, err := ParseExtendedDuration(durationStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(-d), nil
}

// ParseExtendedDuration parses a duration with the standard units plus d, w,
// M and y (days, weeks, months, years).
func ParseExtendedDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	sfx := s[len(s)-1]
	if strings.IndexByte("nsmh", sfx) != -1 {
		return time.ParseDuration(s)
	}
	var factor time.Duration
	num, unit := s[:len(s)-1], s[len(s)-1:]
	switch unit {
	case "d":
		factor = 24 * time.Hour
	case "w":
		factor = 7 * 24 * time.Hour
	case "M":
		factor = 30 * 24 * time.Hour
	case "y":
		factor = 365 * 24 * time.Hour
	default:
		return time.ParseDuration(s)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(f * float64(factor)), nil
}

// globMatch uses filepath.Match
func globMatch(s, pattern string) (bool, error) {
	return filepath.Match(pattern, s)
}

// regexMatch uses regexp.MatchString
func regexMatch(s, pattern string) (bool, error) {
	return regexp.MatchString(pattern, s)
}
