package collect

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect_LogOutcome(t *testing.T) {
	t.Parallel()

	t.Run("successful run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logOutcome(slog.New(slog.NewTextHandler(&buf, nil)), nil)

		assert.Contains(t, buf.String(), "collection run complete")
	})

	t.Run("failed run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logOutcome(
			slog.New(slog.NewTextHandler(&buf, nil)),
			errors.New("unable to reach providers"),
		)

		out := buf.String()

		assert.Contains(t, out, "collection run failed")
		assert.Contains(t, out, "unable to reach providers")
	})
}
