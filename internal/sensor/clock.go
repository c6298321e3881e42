package sensor

import (
	"context"
	"time"

	"github.com/ncruces/go-strftime"
)

// Clock returns an adapter for the time field using a strftime layout.
func Clock(layout string, now func() time.Time) Adapter {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) string {
		return strftime.Format(layout, now())
	}
}
