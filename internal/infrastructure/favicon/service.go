package favicon

import (
	"context"
)

// Service fronts the fetcher with the two-tier cache. It implements the
// session model's favicon source port.
type Service struct {
	fetcher *Fetcher
	cache   *Cache
}

// NewService creates a favicon service. An empty cacheDir disables the disk
// cache tier.
func NewService(cacheDir string) *Service {
	return &Service{
		fetcher: NewFetcher(),
		cache:   NewCache(cacheDir),
	}
}

// Fetch returns favicon bytes for hostname, from cache when possible.
// Returns nil bytes without error when no favicon exists.
func (s *Service) Fetch(ctx context.Context, hostname string) ([]byte, error) {
	if hostname == "" {
		return nil, nil
	}
	if data, ok := s.cache.Get(hostname); ok {
		return data, nil
	}
	data, err := s.fetcher.Fetch(ctx, hostname)
	if err != nil || len(data) == 0 {
		return nil, err
	}
	s.cache.Set(hostname, data)
	return data, nil
}

// Close releases cache resources.
func (s *Service) Close() {
	s.cache.Close()
}
