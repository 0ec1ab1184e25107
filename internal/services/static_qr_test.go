package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventattendance/internal/domain"
)

func TestStaticQRService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mode  domain.AttendanceMode
		event string
		label string
		errIs error
	}{
		{name: "success", mode: domain.AttendanceModeBarcode, event: "ev-1", label: " Gate 1 "},
		{name: "empty label", mode: domain.AttendanceModeBarcode, event: "ev-1", label: "  ", errIs: domain.ErrInvalidInput},
		{name: "label too long", mode: domain.AttendanceModeBarcode, event: "ev-1", label: strings.Repeat("x", 256), errIs: domain.ErrInvalidInput},
		{name: "ticketing event", mode: domain.AttendanceModeTicketing, event: "ev-1", label: "Gate", errIs: domain.ErrWrongAttendanceMode},
		{name: "event not found", mode: domain.AttendanceModeBarcode, event: "ev-404", label: "Gate", errIs: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventRepo()
			events.add("ev-1", domain.EventStatusOngoing, tt.mode, 0)
			qrs := newFakeStaticQRRepo()
			svc := NewStaticQRService(events, qrs, time.Second)

			qr, err := svc.Create(ctx, tt.event, tt.label)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Empty(t, qrs.byCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Gate 1", qr.Label)
			assert.Equal(t, "ev-1", qr.EventID)
			_, err = uuid.Parse(qr.Code)
			assert.NoError(t, err)
		})
	}
}

func TestStaticQRService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	events.add("ev-1", domain.EventStatusOngoing, domain.AttendanceModeBarcode, 0)
	svc := NewStaticQRService(events, newFakeStaticQRRepo(), time.Second)

	a, err := svc.Create(ctx, "ev-1", "Gate A")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "ev-1", "Gate B")
	require.NoError(t, err)
	assert.NotEqual(t, a.Code, b.Code)

	list, err := svc.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.ErrorIs(t, svc.Delete(ctx, a.ID), domain.ErrNotFound)

	list, err = svc.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	_, err = svc.ListByEvent(ctx, "ev-404")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
