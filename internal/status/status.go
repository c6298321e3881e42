// Package status composes the status line from field adapters.
package status

import (
	"context"
	"strings"

	"github.com/jmylchreest/dwmstatus/internal/config"
	"github.com/jmylchreest/dwmstatus/internal/sensor"
)

// Reading is one field's rendered value.
type Reading struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Composer polls the enabled adapters in status line order.
type Composer struct {
	fields    []string
	adapters  map[string]sensor.Adapter
	separator string
}

// NewComposer creates a Composer for the fields cfg enables.
// Fields with no adapter in adapters are skipped.
func NewComposer(cfg *config.Config, adapters map[string]sensor.Adapter) *Composer {
	fields := make([]string, 0, len(config.FieldOrder))
	for _, name := range cfg.EnabledFields() {
		if _, ok := adapters[name]; ok {
			fields = append(fields, name)
		}
	}
	return &Composer{
		fields:    fields,
		adapters:  adapters,
		separator: cfg.Fields.Separator,
	}
}

// Fields returns the names of the fields the composer polls.
func (c *Composer) Fields() []string {
	return c.fields
}

// Snapshot polls every field once, including empty ones.
func (c *Composer) Snapshot(ctx context.Context) []Reading {
	readings := make([]Reading, 0, len(c.fields))
	for _, name := range c.fields {
		readings = append(readings, Reading{Name: name, Value: c.adapters[name](ctx)})
	}
	return readings
}

// Compose polls every field once and joins the result.
func (c *Composer) Compose(ctx context.Context) string {
	return Join(c.Snapshot(ctx), c.separator)
}

// Join concatenates the non-empty readings in order, separated by sep.
// There is never a leading or trailing separator.
func Join(readings []Reading, sep string) string {
	var b strings.Builder
	for _, r := range readings {
		if r.Value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(r.Value)
	}
	return b.String()
}
