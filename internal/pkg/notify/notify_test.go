package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

func TestToasterQueuesAndDrains(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(3, zerolog.New(&buf))

	toaster.Error(apperrors.NewValidationError("Invalid date or time"))
	toaster.Success("Event created")

	notices := toaster.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, LevelError, notices[0].Level)
	assert.Equal(t, apperrors.KindValidation, notices[0].Kind)
	assert.Equal(t, "Invalid date or time", notices[0].Message)
	assert.Equal(t, "Event created", notices[1].Message)
	assert.Contains(t, buf.String(), "Operation failed")

	assert.Empty(t, toaster.Drain())
}

func TestToasterDropsOldest(t *testing.T) {
	toaster := NewToaster(2, zerolog.Nop())
	for i := 0; i < 5; i++ {
		toaster.Info(fmt.Sprintf("n%d", i))
	}

	notices := toaster.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, "n3", notices[0].Message)
	assert.Equal(t, "n4", notices[1].Message)
}

func TestToasterHidesCanceled(t *testing.T) {
	toaster := NewToaster(2, zerolog.Nop())
	toaster.Error(apperrors.NewCanceledError("GET /api/events", context.Canceled))
	toaster.Error(nil)
	assert.Equal(t, 0, toaster.Pending())

	toaster.Error(errors.New("plain"))
	assert.Equal(t, 1, toaster.Pending())
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	var n Notifier = rec
	assert.Nil(t, rec.LastError())
	n.Error(errors.New("a"))
	n.Success("ok")
	assert.Equal(t, 1, rec.ErrorCount())
	assert.EqualError(t, rec.LastError(), "a")
	assert.Equal(t, []string{"ok"}, rec.Successes)
}
