package kafka

import (
	"context"
	"log/slog"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
	"github.com/sunfresh/catalog/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.EventReporter = (*ClientEventsProducer)(nil)

// A ClientEventsProducer publishes [domain.ClientEvent] records keyed
// by visitor id.
type ClientEventsProducer struct {
	cl       ProducerClient
	encoder  Encoder
	opPrefix string
}

func NewClientEventsProducer(
	opts ...ProducerOpt,
) (ClientEventsProducer, error) {
	const op = "NewClientEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ClientEventsProducer{}, opErr(err, op)
		}
	}

	return ClientEventsProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		opPrefix: "ClientEventsProducer",
	}, nil
}

func (p ClientEventsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p ClientEventsProducer) ReportEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	const op = "ReportEvents"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	rs, err := p.createRecords(evts)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p ClientEventsProducer) createRecords(
	evts []domain.ClientEvent,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	for _, evt := range evts {
		s := p.toSchema(evt)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		r := &kgo.Record{Key: []byte(s.VisitorID), Value: b}
		rs = append(rs, r)
	}
	return rs, nil
}

func (ClientEventsProducer) toSchema(v domain.ClientEvent) schema.ClientEventV1 {
	return schema.ClientEventV1{
		EventType:  string(v.Type),
		VisitorID:  v.VisitorID,
		Query:      v.Query,
		SKU:        v.SKU,
		OccurredAt: v.OccurredAt.UnixMilli(),
	}
}
