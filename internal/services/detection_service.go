// Package services wires the detection pipeline together.
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"audioshield/internal/audio"
	"audioshield/internal/clients/inference"
	"audioshield/internal/config"
	"audioshield/internal/ensemble"
	"audioshield/internal/types"
)

// DetectionService owns the pool of classification backends. The pool is built
// once at startup and read-only afterwards; requests share it freely.
type DetectionService struct {
	backends   []*inference.Client
	sampleRate int
	sem        chan struct{} // bounds in-flight inference calls across all requests
	warmedUp   bool
}

// NewDetectionService builds the service from configuration. The config layer
// guarantees exactly four backends.
func NewDetectionService(cfg *config.Config) *DetectionService {
	backends := make([]*inference.Client, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		backends = append(backends, inference.NewClient(inference.Config{
			Name:    m.Name,
			ID:      m.ID,
			URL:     m.URL,
			Token:   m.Token,
			Timeout: m.HTTPTimeout(),
		}))
	}
	return &DetectionService{
		backends:   backends,
		sampleRate: cfg.Detection.SampleRate,
		sem:        make(chan struct{}, cfg.Detection.MaxConcurrency),
	}
}

// ModelCount returns the number of live backends.
func (s *DetectionService) ModelCount() int {
	if !s.warmedUp {
		return 0
	}
	return len(s.backends)
}

// WarmUp pushes one second of silence through every backend to force lazy
// initialization before real traffic arrives. Any failure is returned: the
// caller must not serve with a partially live ensemble.
func (s *DetectionService) WarmUp(ctx context.Context) error {
	silence := audio.Silence(time.Second, s.sampleRate)
	if _, err := s.classifyAll(ctx, silence); err != nil {
		return err
	}
	s.warmedUp = true
	return nil
}

// Analyze runs the full pipeline on raw audio bytes: decode, classify on all
// four backends, aggregate.
func (s *DetectionService) Analyze(ctx context.Context, data []byte, format string) (types.AggregateVerdict, error) {
	waveform, err := audio.Decode(data, format, s.sampleRate)
	if err != nil {
		return types.AggregateVerdict{}, err
	}
	log.Printf("decoded %s audio: %d samples @ %d Hz (%.2fs)",
		format, len(waveform.Samples), waveform.SampleRate, waveform.Duration().Seconds())

	votes, err := s.classifyAll(ctx, waveform)
	if err != nil {
		return types.AggregateVerdict{}, fmt.Errorf("%w: %v", types.ErrInference, err)
	}
	return ensemble.Aggregate(votes)
}

// classifyAll fans the waveform out to every backend concurrently and collects
// one vote per backend. The first error wins; partial ensembles are never
// aggregated.
func (s *DetectionService) classifyAll(ctx context.Context, w audio.Waveform) ([]types.ModelVote, error) {
	votes := make([]types.ModelVote, len(s.backends))
	errs := make([]error, len(s.backends))

	var wg sync.WaitGroup
	for i, backend := range s.backends {
		wg.Add(1)
		go func(i int, backend *inference.Client) {
			defer wg.Done()
			s.sem <- struct{}{}
			defer func() { <-s.sem }()

			predictions, err := backend.Classify(ctx, w)
			if err != nil {
				errs[i] = err
				return
			}
			votes[i] = ensemble.VoteFrom(backend.Name(), predictions)
			log.Printf("model %s voted %s (%.4f)", backend.Name(), votes[i].Label, votes[i].Confidence)
		}(i, backend)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return votes, nil
}
