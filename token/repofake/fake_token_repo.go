package tokenfakerepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/hubspot-oauth-quickstart/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo wraps an in-memory repo, counts calls and can be told to fail.
type FakeTokenRepo struct {
	*token.InMemoryRepo

	lock    sync.Mutex
	Err     error
	Upserts int
	Reads   int
}

func NewFakeTokenRepo(opts ...token.InMemoryOption) *FakeTokenRepo {
	return &FakeTokenRepo{InMemoryRepo: token.NewInMemoryRepo(opts...)}
}

func (tr *FakeTokenRepo) Upsert(ctx context.Context, sessionID string, tokens token.Tokens, accessTTL time.Duration) error {
	tr.lock.Lock()
	tr.Upserts++
	err := tr.Err
	tr.lock.Unlock()
	if err != nil {
		return err
	}
	return tr.InMemoryRepo.Upsert(ctx, sessionID, tokens, accessTTL)
}

func (tr *FakeTokenRepo) RefreshToken(ctx context.Context, sessionID string) (string, error) {
	if err := tr.read(); err != nil {
		return "", err
	}
	return tr.InMemoryRepo.RefreshToken(ctx, sessionID)
}

func (tr *FakeTokenRepo) AccessToken(ctx context.Context, sessionID string) (string, error) {
	if err := tr.read(); err != nil {
		return "", err
	}
	return tr.InMemoryRepo.AccessToken(ctx, sessionID)
}

func (tr *FakeTokenRepo) read() error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.Reads++
	return tr.Err
}
