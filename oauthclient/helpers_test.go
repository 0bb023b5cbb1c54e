package oauthclient_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

// counterValue reads one labelled counter from the fixture's registry; zero if absent.
func (f *fixture) counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := f.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	next:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func (f *fixture) exchangeCount(t *testing.T, grantType, outcome string) float64 {
	return f.counterValue(t, "quickstart_token_exchanges_total", map[string]string{"grant_type": grantType, "outcome": outcome})
}

func (f *fixture) cacheCount(t *testing.T, result string) float64 {
	return f.counterValue(t, "quickstart_access_token_cache_total", map[string]string{"result": result})
}
