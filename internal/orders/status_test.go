package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{StatusPending, StatusReceived, StatusInProgress, StatusDone, StatusCompleted, StatusCancelled}

func TestFire_Table(t *testing.T) {
	tests := []struct {
		from    Status
		trigger Trigger
		want    Status
		changed bool
		wantErr bool
	}{
		{StatusPending, TriggerPaymentConfirmed, StatusReceived, true, false},
		{StatusPending, TriggerPaymentRefused, StatusCancelled, true, false},
		{StatusReceived, TriggerPaymentRefused, StatusCancelled, true, false},
		{StatusReceived, TriggerKitchenAccepted, StatusInProgress, true, false},
		{StatusInProgress, TriggerKitchenFinished, StatusDone, true, false},
		{StatusDone, TriggerPickedUp, StatusCompleted, true, false},
		{StatusPending, TriggerCancel, StatusCancelled, true, false},
		{StatusReceived, TriggerCancel, StatusCancelled, true, false},
		{StatusInProgress, TriggerCancel, StatusCancelled, true, false},

		// same-state transitions are no-op successes
		{StatusReceived, TriggerPaymentConfirmed, StatusReceived, false, false},
		{StatusCancelled, TriggerPaymentRefused, StatusCancelled, false, false},
		{StatusCancelled, TriggerCancel, StatusCancelled, false, false},
		{StatusCompleted, TriggerPickedUp, StatusCompleted, false, false},

		{StatusPending, TriggerKitchenAccepted, StatusPending, false, true},
		{StatusPending, TriggerPickedUp, StatusPending, false, true},
		{StatusDone, TriggerCancel, StatusDone, false, true},
		{StatusCompleted, TriggerCancel, StatusCompleted, false, true},
		{StatusCancelled, TriggerPaymentConfirmed, StatusCancelled, false, true},
		{StatusDone, TriggerPaymentRefused, StatusDone, false, true},
		{StatusInProgress, TriggerPaymentConfirmed, StatusInProgress, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.trigger), func(t *testing.T) {
			next, changed, err := Fire(tt.from, tt.trigger)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, next)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestFire_UnknownTrigger(t *testing.T) {
	_, _, err := Fire(StatusPending, Trigger("teleport"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, to := range allStatuses {
		assert.False(t, CanTransition(StatusCompleted, to), "COMPLETED -> %s", to)
		assert.False(t, CanTransition(StatusCancelled, to), "CANCELLED -> %s", to)
	}
}

func TestCanTransition_Edges(t *testing.T) {
	edges := map[Status][]Status{
		StatusPending:    {StatusReceived, StatusCancelled},
		StatusReceived:   {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusDone, StatusCancelled},
		StatusDone:       {StatusCompleted},
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, allowed := range edges[from] {
				if allowed == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestMoveTo(t *testing.T) {
	changed, err := MoveTo(StatusDone, StatusCompleted)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = MoveTo(StatusDone, StatusDone)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = MoveTo(StatusPending, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = MoveTo(StatusCancelled, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrder_FireLeavesStatusOnError(t *testing.T) {
	o := NewOrder(1, nil, nil)
	_, err := o.Fire(TriggerPickedUp)
	require.Error(t, err)
	assert.Equal(t, StatusPending, o.Status)

	_, err = o.MoveTo(StatusDone)
	require.Error(t, err)
	assert.Equal(t, StatusPending, o.Status)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	st, err = ParseStatus(" DONE ")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, st)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
