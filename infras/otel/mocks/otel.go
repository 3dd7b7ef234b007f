package mocks

import (
	"context"
	"rentals/infras/otel"
)

// Otel is a no-op tracer for tests.
type Otel struct{}

// NewScope implements otel.Otel.
func (o Otel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

// Shutdown implements otel.Otel.
func (o Otel) Shutdown(_ context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return Otel{}
}

type scope struct{}

func (scope) AddEvent(_ string)              {}
func (scope) End()                           {}
func (scope) SetAttribute(_ string, _ any)   {}
func (scope) SetAttributes(_ map[string]any) {}
func (scope) TraceError(_ error)             {}
func (scope) TraceIfError(_ error)           {}

func NewScope() otel.Scope {
	return scope{}
}
