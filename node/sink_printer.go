package node

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hugolhafner/go-pushgraph/logger"
	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/otel"
	"go.opentelemetry.io/otel/metric"
)

const printerRole = "PrinterSink"

// PrinterSink renders every message it receives as one line of text.
type PrinterSink struct {
	named

	w      io.Writer
	cfg    config
	logger logger.Logger
}

// NewPrinterSink returns a sink writing to w, or to stdout when w is nil.
func NewPrinterSink(name string, w io.Writer, opts ...Option) *PrinterSink {
	if w == nil {
		w = os.Stdout
	}

	cfg := newConfig(opts)
	return &PrinterSink{
		named:  named{name: name},
		w:      w,
		cfg:    cfg,
		logger: cfg.logger.With("node", name),
	}
}

func (p *PrinterSink) Type() NodeType {
	return NodeTypeSink
}

func (p *PrinterSink) Send(ctx context.Context, msg message.Message) error {
	p.cfg.telemetry.Deliveries.Add(
		ctx, 1, metric.WithAttributes(
			otel.AttrNodeName.String(p.name),
			otel.AttrNodeType.String(p.Type().String()),
		),
	)

	if _, err := io.WriteString(p.w, Render(printerRole, p.name, msg)+"\n"); err != nil {
		p.logger.Warn("Failed to render message", "value", msg.Value, "error", err)
		return NewRenderError(fmt.Errorf("render to %s: %w", p.name, err), p.name)
	}

	p.cfg.telemetry.Rendered.Add(ctx, 1, metric.WithAttributes(otel.AttrNodeName.String(p.name)))
	return nil
}

// Render formats msg as received by the sink called name:
//
//	<role> "<name>": msg=<value> trail=(<n1>, <n2>, ...)
//
// The trail segment is left out when trail tracking is disabled.
func Render(role, name string, msg message.Message) string {
	line := fmt.Sprintf("%s \"%s\": msg=%d", role, name, msg.Value)
	if msg.Trail.Enabled() {
		line += " trail=" + msg.Trail.String()
	}
	return line
}
