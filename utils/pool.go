package utils

import (
	"errors"

	hostpool "github.com/bitly/go-hostpool"
	"github.com/paulmatencio/tbm/gLog"
)

var ErrNoEndpoint = errors.New("no S3 endpoint configured")

// EndpointPool picks among several S3 endpoints, favouring the ones that answer.
type EndpointPool struct {
	hp hostpool.HostPool
}

func NewEndpointPool(urls []string) (*EndpointPool, error) {
	if len(urls) == 0 {
		return nil, ErrNoEndpoint
	}
	return &EndpointPool{
		hp: hostpool.NewEpsilonGreedy(urls, 0, &hostpool.LinearEpsilonValueCalculator{}),
	}, nil
}

// Do runs fn against a chosen endpoint and marks the endpoint with its result.
func (p *EndpointPool) Do(fn func(url string) error) error {
	hpr := p.hp.Get()
	err := fn(hpr.Host())
	if err != nil {
		gLog.Warning.Printf("Endpoint %s: %v", hpr.Host(), err)
	}
	hpr.Mark(err)
	return err
}

func (p *EndpointPool) Hosts() []string {
	return p.hp.Hosts()
}

func (p *EndpointPool) Close() {
	p.hp.Close()
}
