package flag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opst/shepherd/pkg/columns"
)

// Columns is a flag.Value collecting columns.
//
// Each value is "NAME" (enabled), or "NAME:STATE" where STATE is parsed by strconv.ParseBool.
// Values can be separated with comma, and the flag can be repeated.
type Columns columns.Spec

func (c *Columns) String() string {
	if c == nil || len(*c) == 0 {
		return ""
	}
	items := make([]string, 0, len(*c))
	for _, col := range *c {
		items = append(items, fmt.Sprintf("%s:%t", col.Name, col.Enabled))
	}
	return strings.Join(items, ",")
}

func (c *Columns) Set(v string) error {
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		col := columns.Column{Name: item, Enabled: true}
		if i := strings.LastIndex(item, ":"); 0 < i {
			if state, err := strconv.ParseBool(item[i+1:]); err == nil {
				col = columns.Column{Name: item[:i], Enabled: state}
			}
		}
		*c = append(*c, col)
	}
	return nil
}

// Spec returns collected columns. It is not nil.
func (c *Columns) Spec() columns.Spec {
	if c == nil {
		return columns.Spec{}
	}
	return columns.Spec(*c).Clone()
}
