package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"
)

// Catalog is the bulk-load file format used by cmd/seed.
type Catalog struct {
	Services     []ServiceInput     `yaml:"services"`
	Projects     []ProjectInput     `yaml:"projects"`
	Testimonials []TestimonialInput `yaml:"testimonials"`
}

func LoadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

type SeedReport struct {
	Created int
	Failed  int
}

// Seed inserts every catalog entry with at most workers concurrent writes, then
// drops the cached lists once. Individual failures are logged and counted.
func (s *AdminService) Seed(ctx context.Context, c Catalog, workers int) (SeedReport, error) {
	if workers <= 0 {
		workers = 1
	}
	var jobs []func(context.Context) error
	for _, in := range c.Services {
		jobs = append(jobs, func(ctx context.Context) error { _, err := s.CreateService(ctx, in); return err })
	}
	for _, in := range c.Projects {
		jobs = append(jobs, func(ctx context.Context) error { _, err := s.CreateProject(ctx, in); return err })
	}
	for _, in := range c.Testimonials {
		jobs = append(jobs, func(ctx context.Context) error { _, err := s.CreateTestimonial(ctx, in); return err })
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep SeedReport
	)
	for i, job := range jobs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}
		wg.Add(1)
		go func(i int, job func(context.Context) error) {
			defer wg.Done()
			defer sem.Release(1)

			err := job(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failed++
				log.Warn().Int("entry", i).Err(err).Msg("seed entry failed")
				return
			}
			rep.Created++
		}(i, job)
	}
	wg.Wait()

	s.InvalidateLists(ctx)
	return rep, nil
}
