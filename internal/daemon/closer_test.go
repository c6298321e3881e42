package daemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dwmstatus/internal/dbus"
)

func TestReportClosed(t *testing.T) {
	tests := []struct {
		name    string
		pending []uint32
		want    []closedCall
	}{
		{
			name:    "single notification expires",
			pending: []uint32{1},
			want:    []closedCall{{id: 1, reason: dbus.CloseReasonExpired}},
		},
		{
			name:    "evicted notification is undefined",
			pending: []uint32{1, 2},
			want: []closedCall{
				{id: 1, reason: dbus.CloseReasonUndefined},
				{id: 2, reason: dbus.CloseReasonExpired},
			},
		},
		{
			name:    "replacement keeps the id open",
			pending: []uint32{3, 3},
			want:    []closedCall{{id: 3, reason: dbus.CloseReasonExpired}},
		},
		{
			name:    "internal notifications are not reported",
			pending: []uint32{0},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closer := &fakeCloser{}
			mb := NewMailbox()
			s := NewScheduler(mb, &fakePublisher{}, testSettings(newFakeComposer("status")), nil)
			ReportClosed(closer, mb, s, nil)

			for _, id := range tt.pending {
				n := newNotification(t, "n", "", 1)
				n.DBusID = id
				mb.Put(n)
			}

			require.NoError(t, s.Step(context.Background()))
			assert.Equal(t, tt.want, closer.Calls())
		})
	}
}
