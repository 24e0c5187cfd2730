package collector

import "context"

// ClientCounter reports how many clients are connected to the host.
// Failing backends return a *models.ClientQueryError.
type ClientCounter interface {
	CountClients(ctx context.Context) (int, error)
}

// StaticClientCounter always reports the same count.
// TODO: replace with a backend that reads the access point's station list once one is chosen.
type StaticClientCounter struct {
	Count int
}

// CountClients returns the configured count and never fails
func (s StaticClientCounter) CountClients(ctx context.Context) (int, error) {
	return s.Count, nil
}

// ClientCount returns the number of connected clients
func (c *Collector) ClientCount(ctx context.Context) (int, error) {
	return c.clients.CountClients(ctx)
}
