package main

import (
	"context"
	"time"

	"github.com/pobradovic08/bgpdecode/bgp"
	"github.com/pobradovic08/bgpdecode/bmp"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// kafkaSource consumes OpenBMP collector frames off Kafka, grounded on the
// teacher's internal/kafka.StateConsumer wiring (consumer group, TLS/SASL,
// manual offset commit), but drives decoding instead of a DB write.
type kafkaSource struct {
	client     *kgo.Client
	logger     *zap.Logger
	opts       *bgp.DecoderOptions
	maxPayload int
}

func newKafkaSource(cfg *Config, opts *bgp.DecoderOptions, logger *zap.Logger) (*kafkaSource, error) {
	tlsCfg, err := cfg.Kafka.BuildTLSConfig()
	if err != nil {
		return nil, err
	}
	saslMech := cfg.Kafka.BuildSASLMechanism()

	kopts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Kafka.Brokers...),
		kgo.ConsumerGroup(cfg.Kafka.GroupID),
		kgo.ConsumeTopics(cfg.Kafka.Topics...),
		kgo.ClientID(cfg.Kafka.ClientID),
		kgo.FetchMaxBytes(cfg.Kafka.FetchMaxBytes),
		kgo.DisableAutoCommit(),
		kgo.OnPartitionsAssigned(func(_ context.Context, _ *kgo.Client, _ map[string][]int32) {
			logger.Info("kafka source: partitions assigned")
		}),
		kgo.OnPartitionsRevoked(func(ctx context.Context, cl *kgo.Client, _ map[string][]int32) {
			if err := cl.CommitMarkedOffsets(ctx); err != nil {
				logger.Error("kafka source: commit on revoke failed", zap.Error(err))
			}
		}),
	}
	if tlsCfg != nil {
		kopts = append(kopts, kgo.DialTLSConfig(tlsCfg))
	}
	if saslMech != nil {
		kopts = append(kopts, kgo.SASL(saslMech))
	}

	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, err
	}

	return &kafkaSource{
		client:     client,
		logger:     logger,
		opts:       opts,
		maxPayload: cfg.Source.MaxPayloadBytes,
	}, nil
}

// Run polls Kafka until ctx is cancelled, decoding each record as an
// OpenBMP frame wrapping one or more BMP messages. Offsets are committed after a
// record is decoded, successfully or not — a record that fails to decode
// will never decode differently on retry, so there's nothing to gain by
// leaving it uncommitted.
func (k *kafkaSource) Run(ctx context.Context) {
	for {
		fetches := k.client.PollFetches(ctx)
		if ctx.Err() != nil {
			return
		}

		if errs := fetches.Errors(); len(errs) > 0 {
			for _, e := range errs {
				k.logger.Error("kafka source: fetch error",
					zap.String("topic", e.Topic),
					zap.Int32("partition", e.Partition),
					zap.Error(e.Err),
				)
			}
		}

		fetches.EachRecord(func(rec *kgo.Record) {
			k.decodeRecord(rec)
			k.client.MarkCommitRecords(rec)
		})

		commitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := k.client.CommitMarkedOffsets(commitCtx); err != nil {
			k.logger.Error("kafka source: commit offsets failed", zap.Error(err))
		}
		cancel()
	}
}

func (k *kafkaSource) decodeRecord(rec *kgo.Record) {
	const source = "kafka"
	start := time.Now()
	FramesReceivedTotal.WithLabelValues(source).Inc()
	BytesProcessed.WithLabelValues(source).Add(float64(len(rec.Value)))

	bmpBytes, err := bmp.DecodeOpenBMPFrame(rec.Value, k.maxPayload)
	if err != nil {
		DecodeErrorsTotal.WithLabelValues(source, "openbmp_frame").Inc()
		k.logger.Debug("kafka source: openbmp frame decode failed", zap.Error(err))
		return
	}

	msgs, err := bmp.ParseAll(bmpBytes, k.opts)
	if err != nil {
		DecodeErrorsTotal.WithLabelValues(source, "bmp").Inc()
		k.logger.Debug("kafka source: bmp decode failed", zap.Error(err))
		return
	}
	DecodeDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	for _, msg := range msgs {
		recordMessage(source, msg)
	}
}

func (k *kafkaSource) Close() {
	k.client.Close()
}
