package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, f string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetFormat(f)
	SetOutput(&buf)
	t.Cleanup(func() {
		SetFormat("")
		SetOutput(os.Stdout)
		SetLevel("info")
	})
	return &buf
}

func TestForInvocation_AddsRequestID(t *testing.T) {
	buf := capture(t, "json")

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-123"})
	ForInvocation(ctx, "userName", "user@example.com").Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-123", rec["requestId"])
	assert.Equal(t, "user@example.com", rec["userName"])
}

func TestForInvocation_WithoutLambdaContext(t *testing.T) {
	buf := capture(t, "json")

	ForInvocation(context.Background(), "userName", "user@example.com").Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "requestId")
}

func TestSetFormat_Text(t *testing.T) {
	buf := capture(t, "text")

	Info("hello", "k", "v")

	line := buf.String()
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, "msg=hello")
	assert.Contains(t, line, "k=v")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetLevel(t *testing.T) {
	buf := capture(t, "json")

	Debug("hidden")
	assert.Zero(t, buf.Len())

	SetLevel("debug")
	Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	SetLevel("error")
	Warn("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestMakeDefault(t *testing.T) {
	buf := capture(t, "json")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	MakeDefault()
	slog.Info("via default")

	assert.Contains(t, buf.String(), `"msg":"via default"`)
}
