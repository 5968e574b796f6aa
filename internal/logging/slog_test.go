package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text", "warn")
	ctx := context.Background()

	log.Info(ctx, "hidden", "k", "v")
	log.Warn(ctx, "shown", "user_id", "u-1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "user_id=u-1")
}

func TestNew_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "debug").With("component", "auth")

	log.Debug(context.Background(), "dbg", "a", 1)

	out := buf.String()
	assert.Contains(t, out, `"level":"DEBUG"`)
	assert.Contains(t, out, `"component":"auth"`)
	assert.Contains(t, out, `"a":1`)
}

func TestParseLevel_Fallback(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text", "loud")

	log.Debug(context.Background(), "dbg")
	log.Info(context.Background(), "inf")

	assert.NotContains(t, buf.String(), "msg=dbg")
	assert.Contains(t, buf.String(), "msg=inf")
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("a", 1)
	l.Info(context.TODO(), "ok")
	l.Error(context.TODO(), "ok")
}
