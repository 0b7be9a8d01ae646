package trace

import "context"

// carrier is what a context holds: the tracer and the innermost open span.
type carrier struct {
	tracer Tracer
	span   SpanContext
}

type carrierKey struct{}

// SpanContext identifies the open span new spans should nest under.
type SpanContext struct {
	SpanID uint64
}

func carrierOf(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(carrierKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return carrierOf(ctx).tracer
}

// WithTracer attaches t to ctx, keeping the current span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := carrierOf(ctx)
	c.tracer = t
	return context.WithValue(ctx, carrierKey{}, c)
}

// CurrentSpan returns the span set by WithSpanContext, zero at the root.
func CurrentSpan(ctx context.Context) SpanContext {
	return carrierOf(ctx).span
}

// WithSpanContext makes sc the parent of spans started under ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	c := carrierOf(ctx)
	c.span = sc
	return context.WithValue(ctx, carrierKey{}, c)
}
