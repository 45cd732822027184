package smell

import (
	"fmt"
	"strconv"
	"strings"
)

type joinKey struct {
	project, pkg, class string
}

// MergeMetrics left-joins a metrics export onto records by project,
// package and type name. Numeric columns of the export are added to each
// record's metrics without overwriting values already taken from the
// detector reason. It returns how many records found a match.
func MergeMetrics(records []Record, metrics *Table) (int, error) {
	cols := make(map[string]int, len(metrics.Header))
	for i, h := range metrics.Header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, name := range []string{ColProject, ColPackage, ColType} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("%w in metrics table: %v", ErrMissingColumns, missing)
	}

	keyCols := map[int]bool{cols[ColProject]: true, cols[ColPackage]: true, cols[ColType]: true}

	byKey := make(map[joinKey]Metrics, len(metrics.Rows))
	for _, row := range metrics.Rows {
		key := joinKey{
			project: strings.TrimSpace(metrics.Value(row, cols[ColProject])),
			pkg:     strings.TrimSpace(metrics.Value(row, cols[ColPackage])),
			class:   strings.TrimSpace(metrics.Value(row, cols[ColType])),
		}
		if _, seen := byKey[key]; seen {
			continue
		}

		values := Metrics{}
		for i, h := range metrics.Header {
			if keyCols[i] {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(metrics.Value(row, i)), 64)
			if err != nil {
				continue
			}
			values[strings.TrimSpace(h)] = v
		}
		byKey[key] = values
	}

	matched := 0
	for i := range records {
		r := &records[i]
		values, ok := byKey[joinKey{
			project: strings.TrimSpace(r.Project),
			pkg:     strings.TrimSpace(r.Package),
			class:   strings.TrimSpace(r.ClassName),
		}]
		if !ok {
			continue
		}
		matched++
		if r.Metrics == nil {
			r.Metrics = Metrics{}
		}
		for name, v := range values {
			if _, exists := r.Metrics[name]; !exists {
				r.Metrics[name] = v
			}
		}
	}
	return matched, nil
}
