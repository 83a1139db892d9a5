package repository

import (
	"context"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	pkgkafka "StockScan/pkg/kafka"
	"StockScan/pkg/logger"
)

// KafkaReportPublisher pushes scan reports and per-ticker signals to
// Kafka topics for downstream alert services.
type KafkaReportPublisher struct {
	producer    *pkgkafka.Producer
	reportTopic string
	signalTopic string
	log         *logger.Logger
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, reportTopic, signalTopic string, log *logger.Logger) repository.ReportPublisher {
	return &KafkaReportPublisher{
		producer:    producer,
		reportTopic: reportTopic,
		signalTopic: signalTopic,
		log:         log,
	}
}

func (p *KafkaReportPublisher) PublishReport(ctx context.Context, report *models.ScanReport) error {
	err := p.producer.Publish(ctx, p.reportTopic, []byte(report.GeneratedAt.Format("20060102T150405")), report)
	if err != nil {
		p.log.Error("publish scan report failed", logger.Error(err))
		return err
	}
	return nil
}

// PublishSignal keys by ticker so per-ticker ordering holds under the
// hash balancer.
func (p *KafkaReportPublisher) PublishSignal(ctx context.Context, opp *models.Opportunity) error {
	if p.signalTopic == "" {
		return nil
	}
	err := p.producer.Publish(ctx, p.signalTopic, []byte(opp.Ticker), opp)
	if err != nil {
		p.log.Error("publish signal failed",
			logger.String("ticker", opp.Ticker),
			logger.Error(err))
		return err
	}
	return nil
}

func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when Kafka publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishReport(ctx context.Context, report *models.ScanReport) error { return nil }
func (NoopPublisher) PublishSignal(ctx context.Context, opp *models.Opportunity) error   { return nil }
func (NoopPublisher) Close() error                                                       { return nil }
