package errors

import (
	"bytes"
	"context"
	stdErrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Proton-105/mewfi-bot/pkg/logger"
)

func TestAppError_Taxonomy(t *testing.T) {
	cause := stdErrors.New("connection refused")

	testCases := []struct {
		name     string
		err      *AppError
		code     string
		severity Severity
	}{
		{name: "load", err: NewLoadError("commands.csv", cause), code: CodeLoad, severity: SeverityCritical},
		{name: "fetch", err: NewFetchError(cause), code: CodeFetch, severity: SeverityMedium},
		{name: "not found", err: NewNotFoundError("/nope"), code: CodeNotFound, severity: SeverityLow},
		{name: "transport", err: NewTransportError("send", cause), code: CodeTransport, severity: SeverityMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.severity, tc.err.Severity)
			assert.True(t, HasCode(tc.err, tc.code))
			assert.NotEmpty(t, tc.err.Error())
		})
	}

	assert.ErrorIs(t, NewFetchError(cause), cause)
	assert.Contains(t, NewLoadError("commands.csv", cause).Error(), "commands.csv")
}

func TestHandler_HidesErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false)

	ctx := logger.WithCorrelationID(context.Background())
	msg := h.Handle(ctx, NewFetchError(stdErrors.New("status 503 from upstream")))

	assert.Equal(t, "😿 Oops! Having trouble fetching data. Please try again later!", msg)
	assert.NotContains(t, msg, "503")
	assert.Contains(t, buf.String(), "code=E300")
	assert.Contains(t, buf.String(), "correlation_id=")
}

func TestHandler_UnknownError(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false)

	msg := h.Handle(context.Background(), stdErrors.New("boom"))

	assert.Equal(t, defaultUserMessage, msg)
	assert.Contains(t, buf.String(), "unknown error")
	assert.Empty(t, h.Handle(context.Background(), nil))

	h.WithFallbackMessage("custom").WithFallbackMessage("")
	assert.Equal(t, "custom", h.Handle(context.Background(), stdErrors.New("boom")))
}
