package poller

import (
	"sync"

	"github.com/svcdash/svcdash/pkg/sshutil"
)

// DialFunc establishes an SSH connection. Tests substitute a mock.
type DialFunc func(host string, opts sshutil.Options) (sshutil.SSHClient, error)

func defaultDial(host string, opts sshutil.Options) (sshutil.SSHClient, error) {
	return sshutil.Dial(host, opts)
}

// Pool maintains one SSH connection per host address. It is the only state
// shared across polling goroutines; all access goes through the mutex.
type Pool struct {
	mu      sync.Mutex
	clients map[string]sshutil.SSHClient
	dial    DialFunc
	opts    sshutil.Options
}

// NewPool creates a connection pool dialing with the given options.
func NewPool(opts sshutil.Options) *Pool {
	return &Pool{
		clients: make(map[string]sshutil.SSHClient),
		dial:    defaultDial,
		opts:    opts,
	}
}

// SetDial replaces the dial function. Must be called before first use.
func (p *Pool) SetDial(dial DialFunc) {
	p.dial = dial
}

// Get returns the live connection for host, dialing a new one if the cached
// connection is missing or dead. Dialing happens outside the lock so one slow
// host never blocks lookups for the others.
func (p *Pool) Get(host string) (sshutil.SSHClient, error) {
	p.mu.Lock()
	cached, ok := p.clients[host]
	p.mu.Unlock()

	if ok {
		if isAlive(cached) {
			return cached, nil
		}
		p.mu.Lock()
		if p.clients[host] == cached {
			cached.Close()
			delete(p.clients, host)
		}
		p.mu.Unlock()
	}

	client, err := p.dial(host, p.opts)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.clients[host]; ok {
		// Another caller won the redial; keep theirs.
		client.Close()
		return existing, nil
	}
	p.clients[host] = client
	return client, nil
}

// Has reports whether a connection for host is cached, without dialing.
func (p *Pool) Has(host string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.clients[host]
	return ok
}

// CloseOne drops the connection for a single host. Safe to call when no
// connection exists.
func (p *Pool) CloseOne(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[host]; ok {
		client.Close()
		delete(p.clients, host)
	}
}

// Close drops every connection. Safe to call repeatedly.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for host, client := range p.clients {
		client.Close()
		delete(p.clients, host)
	}
}

// isAlive probes the connection by opening and closing a session.
func isAlive(client sshutil.SSHClient) bool {
	session, err := client.NewSession()
	if err != nil {
		return false
	}
	session.Close()
	return true
}
