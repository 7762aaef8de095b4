package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"budget-reconciler/internal/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/sirupsen/logrus"
)

// ReportSink stores job run reports.
type ReportSink interface {
	Write(ctx context.Context, reports []*domain.RunReport) error
}

// NewReportSink parses "<kind>:<target>". Kinds are jsonfile (a file path),
// es8 (comma separated node urls) and none.
func NewReportSink(spec string) (ReportSink, error) {
	kind, target, _ := strings.Cut(spec, ":")
	switch kind {
	case "", "none":
		return discardSink{}, nil
	case "jsonfile":
		if target == "" {
			return nil, fmt.Errorf("jsonfile sink needs a path")
		}
		return NewJSONFile(target), nil
	case "es8":
		var urls []string
		if target != "" {
			urls = strings.Split(target, ",")
		}
		return NewElasticsearchV8(urls...)
	}
	return nil, fmt.Errorf("unknown report sink %q", kind)
}

type discardSink struct{}

func (discardSink) Write(context.Context, []*domain.RunReport) error { return nil }

// JSONFile appends each report as one JSON line.
type JSONFile struct {
	mu       sync.Mutex
	filename string
}

func NewJSONFile(filename string) *JSONFile {
	return &JSONFile{filename: filename}
}

func (f *JSONFile) Write(_ context.Context, reports []*domain.RunReport) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range reports {
		if r == nil {
			continue
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("could not encode report %s: %w", r.ID, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := os.OpenFile(f.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open report file: %w", err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("could not write reports: %w", err)
	}
	return file.Close()
}

const (
	esIndex = "reconciler-reports"
	esFlush = 2048

	envEsAddr = "ELASTICSEARCH_SERVICE_HOST"
	envEsPort = "ELASTICSEARCH_SERVICE_PORT"
)

// ElasticsearchV8 bulk indexes reports, one document per report.
type ElasticsearchV8 struct {
	es  *elasticsearch.Client
	log logrus.FieldLogger

	indexOnce sync.Once
}

func NewElasticsearchV8(urls ...string) (*ElasticsearchV8, error) {
	if len(urls) == 0 {
		address := os.Getenv(envEsAddr)
		port := os.Getenv(envEsPort)
		if port == "" {
			port = "9200"
		}
		if address == "" {
			address = "localhost"
		}
		urls = []string{fmt.Sprintf("http://%s:%s", address, port)}
	}

	retryBackoff := backoff.NewExponentialBackOff()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     urls,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create elasticsearch client: %w", err)
	}
	return &ElasticsearchV8{es: es, log: logrus.WithField("sink", "es8")}, nil
}

func (e *ElasticsearchV8) Write(ctx context.Context, reports []*domain.RunReport) error {
	e.indexOnce.Do(func() {
		res, err := e.es.Indices.Create(esIndex, e.es.Indices.Create.WithContext(ctx))
		if err != nil {
			e.log.WithError(err).Debug("attempted to make index")
			return
		}
		res.Body.Close()
	})

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         esIndex,
		FlushBytes:    esFlush,
		Client:        e.es,
		NumWorkers:    2,
		FlushInterval: 10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("could not create bulk indexer: %w", err)
	}

	for _, r := range reports {
		if r == nil {
			continue
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("could not encode report %s: %w", r.ID, err)
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: r.ID,
			Body:       bytes.NewReader(data),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					e.log.WithError(err).WithField("report", item.DocumentID).Error("failed to index report")
					return
				}
				e.log.WithField("report", item.DocumentID).Errorf("failed to index report %s: %s", res.Error.Type, res.Error.Reason)
			},
		})
		if err != nil {
			return fmt.Errorf("could not queue report %s: %w", r.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("could not flush reports: %w", err)
	}
	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return fmt.Errorf("failed indexing %d reports", stats.NumFailed)
	}
	e.log.WithField("count", stats.NumFlushed).Debug("indexed reports")
	return nil
}
