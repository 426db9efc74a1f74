// Package tokenstore keeps a local cache of the NFTs held by each watched
// account, maintained from token events and primed from the ledger.
package tokenstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/walletwatch/xrpl-wallet-events/internal/emitter"
	"github.com/walletwatch/xrpl-wallet-events/internal/xrpl"
	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
)

var ErrKeyEmpty = errors.New("tokenstore: empty account or token id")

type Store struct {
	db *badger.DB
}

func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open token store at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func key(account, tokenID string) ([]byte, error) {
	if account == "" || tokenID == "" {
		return nil, ErrKeyEmpty
	}
	return []byte(account + "/" + tokenID), nil
}

func (s *Store) Add(account, tokenID string) error {
	k, err := key(account, tokenID)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte("ok"))
	})
}

func (s *Store) Remove(account, tokenID string) error {
	k, err := key(account, tokenID)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

// List returns the token ids cached for account, in key order.
func (s *Store) List(account string) ([]string, error) {
	if account == "" {
		return nil, ErrKeyEmpty
	}
	prefix := []byte(account + "/")

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			k := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(k, string(prefix)))
		}
		return nil
	})
	return ids, err
}

// Clear drops every cached token for account.
func (s *Store) Clear(account string) error {
	if account == "" {
		return ErrKeyEmpty
	}
	prefix := []byte(account + "/")

	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace swaps account's cache for the given token set, used when priming
// from an account_nfts snapshot.
func (s *Store) Replace(account string, tokens []xrpl.NFToken) error {
	if err := s.Clear(account); err != nil {
		return err
	}
	for _, tok := range tokens {
		if err := s.Add(account, tok.TokenID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Tap returns the registry tap that keeps the cache in step with token
// events. A refresh-tokens signal clears the cache so the next prime
// refetches from the ledger.
func (s *Store) Tap() func(address string, evt emitter.Event) {
	return func(address string, evt emitter.Event) {
		var err error
		switch e := evt.(type) {
		case emitter.TokenMinted:
			err = s.Add(address, e.TokenID)
		case emitter.TokenBurned:
			err = s.Remove(address, e.TokenID)
		case emitter.TokensRefreshed:
			err = s.Clear(address)
		default:
			return
		}
		if err != nil && !errors.Is(err, ErrKeyEmpty) {
			logger.Error("update token cache", "address", address, "event", evt.Kind(), "err", err)
		}
	}
}
