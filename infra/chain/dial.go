package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Dial tries each endpoint in order and returns the first client that answers
// eth_chainId. When wantChainID is non-zero a client on another chain is
// skipped.
func Dial(ctx context.Context, urls []string, wantChainID int64) (*ethclient.Client, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no rpc endpoints configured", domain.ErrUnavailable)
	}

	var errs []error
	for _, url := range urls {
		client, err := dialOne(ctx, url, wantChainID)
		if err != nil {
			zap.L().Warn("RPC endpoint unusable", zap.String("url", url), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		zap.L().Info("Connected to RPC endpoint", zap.String("url", url))
		return client, nil
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, errors.Join(errs...))
}

func dialOne(ctx context.Context, url string, wantChainID int64) (*ethclient.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	id, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id from %s: %w", url, err)
	}
	if wantChainID != 0 && id.Int64() != wantChainID {
		client.Close()
		return nil, fmt.Errorf("%w: %s serves chain %s, want %d", domain.ErrWrongNetwork, url, id, wantChainID)
	}
	return client, nil
}
