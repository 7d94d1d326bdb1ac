// Package rows turns flat records from the table service into projected
// points.
//
// Records are grouped by an entity field (one point per distinct value), the
// numeric fields of each group are merged through a metrics.Registry, and
// three metric names are then chosen as the X, Y and Z axes. This package
// only reads records; it never writes back to the source.
package rows

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/banshee-data/entityspace/internal/metrics"
	"github.com/banshee-data/entityspace/internal/space"
)

// Row is one flat record as decoded from the table service.
type Row map[string]interface{}

// FieldKind is the field code reported by the table service.
type FieldKind string

const (
	// Entity fields identify the business entity a row belongs to.
	Entity FieldKind = "entity"
	// Number fields carry metrics.
	Number FieldKind = "number"
	// Date fields are coerced to Unix seconds and treated as metrics.
	Date FieldKind = "date"
	// Text fields are carried as point attributes.
	Text FieldKind = "text"
)

// Field describes one column.
type Field struct {
	Code  string    `json:"code"`
	Kind  FieldKind `json:"kind"`
	Title string    `json:"title,omitempty"`
}

// Source supplies records and their field metadata.
type Source interface {
	Fields() []Field
	Rows() []Row
}

// Table is an in-memory Source.
type Table struct {
	FieldList []Field `json:"fields"`
	RowList   []Row   `json:"rows"`
}

// Fields implements Source.
func (t *Table) Fields() []Field { return t.FieldList }

// Rows implements Source.
func (t *Table) Rows() []Row { return t.RowList }

// Verify at compile time that *Table implements Source.
var _ Source = (*Table)(nil)

// Axes names the metric projected onto each coordinate.
type Axes [3]string

// GroupOptions controls GroupRows.
type GroupOptions struct {
	EntityField string
	Registry    *metrics.Registry // nil means metrics.Default()
}

// Resolve returns the display title of a field code, or the code itself.
func Resolve(fields []Field, code string) string {
	for _, f := range fields {
		if f.Code == code && f.Title != "" {
			return f.Title
		}
	}
	return code
}

// GroupRows builds one point per distinct entity value, in first-seen order.
//
// Number and date fields are coerced (invalid values become NaN) and merged
// across the group's rows with the registry, so revenue sums and ratios are
// recomputed rather than averaged. Text and other entity fields keep the
// first non-empty value seen. Rows missing the entity field are grouped under
// an empty key.
func GroupRows(src Source, opts GroupOptions) ([]space.Point, error) {
	if opts.EntityField == "" {
		return nil, fmt.Errorf("entity field is required")
	}
	fields := src.Fields()
	if !hasField(fields, opts.EntityField) {
		return nil, fmt.Errorf("unknown entity field %q", opts.EntityField)
	}
	reg := opts.Registry
	if reg == nil {
		reg = metrics.Default()
	}

	type group struct {
		key     string
		members []metrics.Values
		attrs   map[string]string
	}
	groups := make(map[string]*group)
	var order []*group

	for _, r := range src.Rows() {
		key := textValue(r[opts.EntityField])
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, attrs: make(map[string]string)}
			groups[key] = g
			order = append(order, g)
		}

		vals := make(metrics.Values)
		for _, f := range fields {
			raw, present := r[f.Code]
			switch f.Kind {
			case Number:
				if present {
					vals[f.Code] = metrics.ToFloat(raw)
				}
			case Date:
				if present {
					vals[f.Code] = dateValue(raw)
				}
			case Text, Entity:
				if s := textValue(raw); s != "" && g.attrs[f.Code] == "" {
					g.attrs[f.Code] = s
				}
			}
		}
		g.members = append(g.members, vals)
	}

	out := make([]space.Point, 0, len(order))
	for _, g := range order {
		out = append(out, space.Point{
			ID:          opts.EntityField + ":" + g.key,
			Label:       g.key,
			SourceField: opts.EntityField,
			Metrics:     reg.Merge(g.members),
			Attrs:       g.attrs,
		})
	}
	return out, nil
}

// Project sets each point's coordinates from the metrics named by axes. A
// missing metric yields NaN, which the sanitizer later repairs. An empty axis
// name projects to 0.
func Project(points []space.Point, axes Axes) []space.Point {
	out := make([]space.Point, len(points))
	for i, p := range points {
		p.X = axisValue(p.Metrics, axes[0])
		p.Y = axisValue(p.Metrics, axes[1])
		p.Z = axisValue(p.Metrics, axes[2])
		out[i] = p
	}
	return out
}

func axisValue(m metrics.Values, name string) float64 {
	if name == "" {
		return 0
	}
	v, ok := m[name]
	if !ok {
		return math.NaN()
	}
	return v
}

func hasField(fields []Field, code string) bool {
	for _, f := range fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

func textValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// dateValue converts a date cell to Unix seconds. Numbers pass through.
func dateValue(v interface{}) float64 {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return float64(t.Unix())
			}
		}
	}
	return metrics.ToFloat(v)
}
